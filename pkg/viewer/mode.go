package viewer

import "fmt"

// Mode is the active session view. Exactly one is active at a time.
type Mode int

const (
	ModeLive Mode = iota
	ModeScreenshots
	ModeDocument
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeScreenshots:
		return "screenshots"
	case ModeDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Label is the tab label.
func (m Mode) Label() string {
	switch m {
	case ModeLive:
		return "Live View"
	case ModeScreenshots:
		return "Screenshots"
	case ModeDocument:
		return "Document"
	default:
		return ""
	}
}

// ParseMode accepts the String form of a mode, plus "doc".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "live":
		return ModeLive, nil
	case "screenshots":
		return ModeScreenshots, nil
	case "document", "doc":
		return ModeDocument, nil
	}
	return ModeLive, fmt.Errorf("unknown mode %q", s)
}

// SelectMode derives the active mode. A document reference always wins;
// otherwise an override of Screenshots or Live is honored; otherwise Live.
func SelectMode(docRef string, override *Mode) Mode {
	if docRef != "" {
		return ModeDocument
	}
	if override != nil && (*override == ModeScreenshots || *override == ModeLive) {
		return *override
	}
	return ModeLive
}

// ModePtr returns a pointer to m, for Props.ActiveMode.
func ModePtr(m Mode) *Mode {
	return &m
}
