package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/lookout/pkg/executor/tui/types"
	"github.com/entrhq/lookout/pkg/viewer/handover"
	"github.com/entrhq/lookout/pkg/viewer/remote"
)

// RenderSurface describes the remote surface for a terminal: the
// placeholder while it is not live, otherwise its address and size.
func RenderSurface(state types.StateProvider) string {
	s := state.Surface()
	switch s.State {
	case remote.SurfaceLive:
		var sb strings.Builder
		sb.WriteString(lipgloss.NewStyle().Foreground(types.MintGreen).Render("● Live"))
		sb.WriteString("\n")
		sb.WriteString(s.URL)
		if state.DimensionsVisible() && s.Size.Width > 0 {
			sb.WriteString("\n")
			sb.WriteString(types.OverlaySubtitleStyle.Render(state.Dimensions().String()))
		}
		return sb.String()
	case remote.SurfaceBroken:
		return lipgloss.NewStyle().Foreground(types.ErrorRed).Render(s.Placeholder())
	case remote.SurfaceWaiting:
		return types.OverlaySubtitleStyle.Render(s.Placeholder())
	default:
		return state.Spinner() + " " + s.Placeholder()
	}
}

// SurfaceOverlay is the maximized remote surface.
type SurfaceOverlay struct {
	*BaseOverlay
	state types.StateProvider
}

// NewSurfaceOverlay creates the remote-surface modal sized for the terminal.
func NewSurfaceOverlay(state types.StateProvider, width, height int) *SurfaceOverlay {
	w, h := modalSize(width, height)
	s := &SurfaceOverlay{state: state}
	s.BaseOverlay = NewBaseOverlay(BaseOverlayConfig{
		Width:          w,
		Height:         h,
		ViewportWidth:  w - 6,
		ViewportHeight: h - 8,
		Content:        RenderSurface(state),
		RenderHeader: func() string {
			return types.OverlayTitleStyle.Render("Live View")
		},
		RenderFooter: func() string {
			return types.OverlayHelpStyle.Render("t: Take control and give feedback • Esc: Minimize")
		},
	})
	return s
}

// Update handles messages for the remote-surface overlay
func (s *SurfaceOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	s.state = state
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "t" {
		if err := actions.HandoverFromModal(); err != nil {
			actions.ShowToast("Cannot take control", err.Error(), "⚠️", true)
		}
		return s, nil
	}

	_, closed, cmd := s.BaseOverlay.Update(msg, actions)
	if closed {
		return nil, cmd
	}
	return s, cmd
}

// View renders the remote-surface overlay
func (s *SurfaceOverlay) View() string {
	s.SetContent(RenderSurface(s.state))
	return s.BaseOverlay.View(s.Width())
}

// ControlOverlay fills the terminal while the human has control. It cannot
// be dismissed; the only way out is handing control back.
type ControlOverlay struct {
	*BaseOverlay
	state types.StateProvider
}

// NewControlOverlay creates the fullscreen control overlay.
func NewControlOverlay(state types.StateProvider, width, height int) *ControlOverlay {
	c := &ControlOverlay{state: state}
	c.BaseOverlay = NewBaseOverlay(BaseOverlayConfig{
		Width:          width,
		Height:         height,
		ViewportWidth:  max(width-6, 10),
		ViewportHeight: max(height-8, 3),
		Closable:       func() bool { return false },
	})
	return c
}

// Update handles messages for the control overlay
func (c *ControlOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	c.state = state
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "g", keyEnter:
			if err := actions.RequestHandback(); err != nil {
				actions.ShowToast("Cannot hand back control", err.Error(), "⚠️", true)
			}
			return c, nil
		case keyEsc:
			actions.ShowToast("You have control", "Give control back to Agents to close this view", "🔒", false)
			return c, nil
		}
	}
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		c.Viewport().Width = max(size.Width-6, 10)
		c.Viewport().Height = max(size.Height-8, 3)
	}

	c.BaseOverlay.Update(msg, actions)
	return c, nil
}

// View renders the control overlay
func (c *ControlOverlay) View() string {
	c.SetContent(RenderSurface(c.state))

	badge := types.BadgeStyle.Render("You have control")
	banner := types.BannerStyle.Render("⚠ " + handover.CautionMessage)
	hints := types.OverlayHelpStyle.Render("g: Give control back to Agents")

	body := lipgloss.JoinVertical(lipgloss.Left,
		badge,
		"",
		banner,
		"",
		c.Viewport().View(),
		"",
		hints,
	)
	return types.CreateFullscreenStyle(c.Width(), c.Height()).Render(body)
}
