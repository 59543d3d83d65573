package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/lookout/pkg/executor/tui/types"
)

// overlayState tracks the active overlay and the ones beneath it.
// The control overlay sits at the bottom of the stack while the feedback
// form is open on top of it.
type overlayState struct {
	mode    types.OverlayMode
	overlay types.Overlay
	stack   []overlayStackEntry
}

// overlayStackEntry represents a saved overlay state
type overlayStackEntry struct {
	mode    types.OverlayMode
	overlay types.Overlay
}

func newOverlayState() *overlayState {
	return &overlayState{mode: types.OverlayModeNone}
}

// activate replaces the current overlay, keeping the stack
func (o *overlayState) activate(mode types.OverlayMode, overlay types.Overlay) {
	o.mode = mode
	o.overlay = overlay
}

// activateAndClearStack replaces the whole overlay hierarchy
func (o *overlayState) activateAndClearStack(mode types.OverlayMode, overlay types.Overlay) {
	o.stack = nil
	o.mode = mode
	o.overlay = overlay
}

// pushOverlay saves the current overlay and activates a new one
func (o *overlayState) pushOverlay(mode types.OverlayMode, overlay types.Overlay) {
	if o.mode != types.OverlayModeNone && o.overlay != nil {
		o.stack = append(o.stack, overlayStackEntry{mode: o.mode, overlay: o.overlay})
	}
	o.mode = mode
	o.overlay = overlay
}

// popOverlay returns to the previous overlay in the stack.
// It reports false when the stack was empty and everything closed.
func (o *overlayState) popOverlay() bool {
	if len(o.stack) == 0 {
		o.deactivate()
		return false
	}
	last := len(o.stack) - 1
	prev := o.stack[last]
	o.stack = o.stack[:last]
	o.mode = prev.mode
	o.overlay = prev.overlay
	return true
}

// deactivate closes the current overlay
func (o *overlayState) deactivate() {
	o.mode = types.OverlayModeNone
	o.overlay = nil
}

// clear closes every overlay
func (o *overlayState) clear() {
	o.stack = nil
	o.deactivate()
}

// isActive returns whether any overlay is currently active
func (o *overlayState) isActive() bool {
	if o.mode == types.OverlayModeNone {
		return false
	}
	// mode without an overlay is inconsistent; heal it instead of panicking
	if o.overlay == nil {
		o.mode = types.OverlayModeNone
		return false
	}
	return true
}

// contains reports whether mode is active or anywhere in the stack
func (o *overlayState) contains(mode types.OverlayMode) bool {
	if o.mode == mode && o.overlay != nil {
		return true
	}
	for _, e := range o.stack {
		if e.mode == mode {
			return true
		}
	}
	return false
}

// renderOverlay renders an overlay centered on a clean background
func renderOverlay(baseView string, overlay types.Overlay, width, height int) string {
	if overlay == nil {
		return baseView
	}
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay.View(),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("0")),
	)
}

// renderToastOverlay renders a toast-style overlay near the bottom of the
// screen without affecting the base view's layout
func renderToastOverlay(baseView string, toastContent string) string {
	if toastContent == "" {
		return baseView
	}

	baseLines := strings.Split(baseView, "\n")
	toastLines := strings.Split(strings.TrimRight(toastContent, "\n"), "\n")

	// just above the status bar
	startLine := max(len(baseLines)-2-len(toastLines), 0)

	var result strings.Builder
	for i, line := range baseLines {
		idx := i - startLine
		if idx >= 0 && idx < len(toastLines) {
			result.WriteString("  ")
			result.WriteString(toastLines[idx])
		} else {
			result.WriteString(line)
		}
		if i < len(baseLines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
