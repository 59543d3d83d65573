package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/lookout/pkg/executor/tui/types"
	"github.com/entrhq/lookout/pkg/viewer/remote"
)

// itemType defines how a setting is edited
type itemType int

const (
	itemTypeToggle itemType = iota
	itemTypeList
	itemTypeRange
)

// settingsItem is one editable row
type settingsItem struct {
	displayName string
	description string
	itemType    itemType
	options     []string // For list items
	low, high   int      // For range items
}

var scalingOptions = []string{string(remote.ScalingLocal), string(remote.ScalingRemote), string(remote.ScalingNone)}

var settingsItems = []settingsItem{
	{displayName: "Quality", description: "Remote stream quality, 0 (fast) to 9 (best)", itemType: itemTypeRange, low: 0, high: 9},
	{displayName: "Scaling", description: "Who resizes the remote desktop to fit", itemType: itemTypeList, options: scalingOptions},
	{displayName: "View only", description: "Watch the session without sending input", itemType: itemTypeToggle},
	{displayName: "Show dimensions", description: "Show the W × H indicator on the live view", itemType: itemTypeToggle},
}

// SettingsOverlay edits the viewer settings. Changes apply on save and are
// persisted in the background.
type SettingsOverlay struct {
	width    int
	height   int
	focused  bool
	selected int
	values   types.Settings
	original types.Settings
}

// NewSettingsOverlay creates the settings editor seeded with current values.
func NewSettingsOverlay(current types.Settings, width int) *SettingsOverlay {
	w, _ := modalSize(width, 0)
	return &SettingsOverlay{
		width:    min(w, 72),
		height:   len(settingsItems)*2 + 8,
		focused:  true,
		values:   current,
		original: current,
	}
}

// Update handles messages for the settings overlay
func (s *SettingsOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key.String() {
	case keyEsc, keyCtrlC:
		return nil, nil
	case "up", "k":
		s.selected = (s.selected + len(settingsItems) - 1) % len(settingsItems)
	case "down", "j", keyTab:
		s.selected = (s.selected + 1) % len(settingsItems)
	case keyLeft, "h":
		s.adjust(-1)
	case keyRight, "l", " ":
		s.adjust(1)
	case keyEnter, keyCtrlS:
		if !s.HasChanges() {
			return nil, nil
		}
		return nil, actions.ApplySettings(s.values)
	}
	return s, nil
}

func (s *SettingsOverlay) adjust(step int) {
	item := settingsItems[s.selected]
	switch item.itemType {
	case itemTypeRange:
		s.values.Quality = min(max(s.values.Quality+step, item.low), item.high)
	case itemTypeList:
		i := 0
		for j, opt := range item.options {
			if opt == string(s.values.Scaling) {
				i = j
			}
		}
		n := len(item.options)
		s.values.Scaling = remote.Scaling(item.options[((i+step)%n+n)%n])
	case itemTypeToggle:
		if s.selected == 2 {
			s.values.ViewOnly = !s.values.ViewOnly
		} else {
			s.values.ShowDimensions = !s.values.ShowDimensions
		}
	}
}

// HasChanges reports whether any value differs from when the overlay opened.
func (s *SettingsOverlay) HasChanges() bool {
	return s.values != s.original
}

// Values returns the edited settings.
func (s *SettingsOverlay) Values() types.Settings {
	return s.values
}

func (s *SettingsOverlay) valueOf(i int) string {
	switch i {
	case 0:
		return fmt.Sprintf("%d", s.values.Quality)
	case 1:
		return string(s.values.Scaling)
	case 2:
		return onOff(s.values.ViewOnly)
	default:
		return onOff(s.values.ShowDimensions)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// View renders the settings overlay
func (s *SettingsOverlay) View() string {
	var rows strings.Builder
	for i, item := range settingsItems {
		cursor := "  "
		name := lipgloss.NewStyle().Foreground(types.BrightWhite).Render(item.displayName)
		if i == s.selected {
			cursor = "▸ "
			name = types.OverlayTitleStyle.Render(item.displayName)
		}
		value := lipgloss.NewStyle().Foreground(types.MintGreen).Render("‹ " + s.valueOf(i) + " ›")
		fmt.Fprintf(&rows, "%s%-18s %s\n", cursor, name, value)
		rows.WriteString("    " + types.OverlaySubtitleStyle.Render(item.description) + "\n")
	}

	title := "Viewer Settings"
	if s.HasChanges() {
		title += " *"
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		types.OverlayTitleStyle.Render(title),
		"",
		strings.TrimRight(rows.String(), "\n"),
		"",
		types.OverlayHelpStyle.Render("↑/↓: Select • ←/→: Change • Enter: Save • Esc: Discard"),
	)
	return types.CreateOverlayContainerStyle(s.width).Render(body)
}

// Width returns the overlay width
func (s *SettingsOverlay) Width() int { return s.width }

// Height returns the overlay height
func (s *SettingsOverlay) Height() int { return s.height }

// SetDimensions updates the overlay dimensions
func (s *SettingsOverlay) SetDimensions(width, height int) {
	s.width, s.height = width, height
}

// Focused returns whether this overlay should handle input
func (s *SettingsOverlay) Focused() bool { return s.focused }

// SetFocused sets the focus state
func (s *SettingsOverlay) SetFocused(focused bool) { s.focused = focused }
