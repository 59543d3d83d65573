package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/lookout/pkg/executor/tui/types"
)

// Binding is one row of the help table.
type Binding struct {
	Keys        string
	Description string
}

// DefaultBindings lists the main view key bindings.
var DefaultBindings = []Binding{
	{"tab", "Switch between Screenshots and Live View"},
	{"← / →", "Previous / next screenshot (wraps around)"},
	{"enter / m", "Maximize the live view or document"},
	{"t", "Take control of the remote session"},
	{"a", "Respond to a pending approval"},
	{"y", "Copy the live view URL"},
	{"r", "Retry a failed document"},
	{"R", "Reconnect: remount the viewer"},
	{"D", "Toggle the dimensions indicator"},
	{"s", "Viewer settings"},
	{"?", "This help"},
	{"q / ctrl+c", "Quit"},
}

// HelpOverlay displays help information in a modal dialog
type HelpOverlay struct {
	*BaseOverlay
	title string
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay(title string, bindings []Binding) *HelpOverlay {
	const (
		viewportWidth  = 66
		viewportHeight = 14
	)

	overlay := &HelpOverlay{title: title}
	overlay.BaseOverlay = NewBaseOverlay(BaseOverlayConfig{
		Width:          viewportWidth + 4,
		Height:         viewportHeight + 6,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		Content:        renderBindings(bindings),
		RenderHeader: func() string { return types.OverlayTitleStyle.Render(title) },
		RenderFooter: func() string { return types.OverlayHelpStyle.Render("Press ESC or Enter to close") },
	})
	return overlay
}

func renderBindings(bindings []Binding) string {
	width := 0
	for _, b := range bindings {
		width = max(width, len([]rune(b.Keys)))
	}
	var sb strings.Builder
	for _, b := range bindings {
		fmt.Fprintf(&sb, "  %-*s  %s\n", width, b.Keys, b.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Update handles messages for the help overlay
func (h *HelpOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == keyEnter || key.String() == "?") {
		return nil, nil
	}
	_, closed, cmd := h.BaseOverlay.Update(msg, actions)
	if closed {
		return nil, cmd
	}
	return h, cmd
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	return h.BaseOverlay.View(h.Viewport().Width)
}
