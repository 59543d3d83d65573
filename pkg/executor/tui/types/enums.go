package types

// OverlayMode represents the current overlay state
type OverlayMode int

const (
	// OverlayModeNone indicates no overlay is active
	OverlayModeNone OverlayMode = iota
	// OverlayModeHelp shows the key bindings
	OverlayModeHelp
	// OverlayModeDocument shows the maximized document preview
	OverlayModeDocument
	// OverlayModeRemoteSurface shows the maximized remote surface
	OverlayModeRemoteSurface
	// OverlayModeControl shows the fullscreen control overlay during a handover
	OverlayModeControl
	// OverlayModeFeedback shows the handback note form
	OverlayModeFeedback
	// OverlayModeApproval shows the accept/deny decision
	OverlayModeApproval
	// OverlayModeSettings shows the viewer settings editor
	OverlayModeSettings
)

// String returns the mode name used in debug logs.
func (m OverlayMode) String() string {
	switch m {
	case OverlayModeNone:
		return "none"
	case OverlayModeHelp:
		return "help"
	case OverlayModeDocument:
		return "document"
	case OverlayModeRemoteSurface:
		return "remote-surface"
	case OverlayModeControl:
		return "control"
	case OverlayModeFeedback:
		return "feedback"
	case OverlayModeApproval:
		return "approval"
	case OverlayModeSettings:
		return "settings"
	default:
		return "unknown"
	}
}
