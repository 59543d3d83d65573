package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/lookout/pkg/executor/tui/types"
	"github.com/entrhq/lookout/pkg/viewer/document"
)

// DocumentOverlay is the maximized document preview. Links in the document
// are cycled with tab and followed with enter.
type DocumentOverlay struct {
	*BaseOverlay
	title    string
	doc      *document.Document
	state    document.State
	message  string
	selected int
}

// NewDocumentOverlay creates the document modal sized for the terminal.
func NewDocumentOverlay(state types.StateProvider, width, height int) *DocumentOverlay {
	w, h := modalSize(width, height)
	d := &DocumentOverlay{title: state.DocumentTitle(), selected: -1}
	d.BaseOverlay = NewBaseOverlay(BaseOverlayConfig{
		Width:          w,
		Height:         h,
		ViewportWidth:  w - 6,
		ViewportHeight: h - 8,
		RenderHeader:   d.renderHeader,
		RenderFooter:   d.renderFooter,
	})
	d.sync(state)
	return d
}

// Update handles messages for the document overlay
func (d *DocumentOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	defer d.sync(state)

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case keyTab:
			d.cycle(1)
			return d, nil
		case keyShiftTab:
			d.cycle(-1)
			return d, nil
		case keyEnter:
			d.follow(actions)
			return d, nil
		case "r":
			if d.state == document.Failed {
				return d, actions.RetryDocument()
			}
		}
	}

	_, closed, cmd := d.BaseOverlay.Update(msg, actions)
	if closed {
		return nil, cmd
	}
	return d, cmd
}

// sync picks up a document that finished loading while the modal was open.
func (d *DocumentOverlay) sync(state types.StateProvider) {
	p := state.Preview()
	if p == nil {
		return
	}
	doc, st := p.Document(), p.State()
	if doc == d.doc && st == d.state {
		return
	}
	d.doc, d.state, d.selected = doc, st, -1

	switch {
	case st == document.Failed:
		d.message = p.ErrorMessage()
		d.SetContent(lipgloss.NewStyle().Foreground(types.ErrorRed).Render(d.message))
	case doc != nil:
		d.message = ""
		if doc.Title != "" {
			d.title = doc.Title
		}
		d.SetContent(strings.Join(doc.Lines, "\n"))
	default:
		d.message = p.Placeholder()
		d.SetContent(state.Spinner() + " " + d.message)
	}
	d.Viewport().GotoTop()
}

func (d *DocumentOverlay) cycle(step int) {
	if d.doc == nil || len(d.doc.Links) == 0 {
		return
	}
	n := len(d.doc.Links)
	d.selected = ((d.selected+step)%n + n) % n
	link := d.doc.Links[d.selected]
	vp := d.Viewport()
	if link.Line < vp.YOffset || link.Line >= vp.YOffset+vp.Height {
		d.ScrollTo(link.Line)
	}
}

func (d *DocumentOverlay) follow(actions types.ActionHandler) {
	if d.doc == nil || d.selected < 0 || d.selected >= len(d.doc.Links) {
		return
	}
	action, err := actions.FollowLink(d.doc.Links[d.selected])
	if err != nil {
		actions.ShowToast("Could not open link", err.Error(), "❌", true)
		return
	}
	switch action.Kind {
	case document.ActionScroll:
		d.ScrollTo(action.Line)
	case document.ActionOpenExternal:
		actions.ShowToast("Link copied", action.URL, "🔗", false)
	case document.ActionNative:
		actions.ShowToast("Link", action.URL, "🔗", false)
	}
}

func (d *DocumentOverlay) renderHeader() string {
	title := types.OverlayTitleStyle.Render(d.title)
	if d.doc == nil {
		return title
	}
	sub := fmt.Sprintf("%s • %d lines", d.doc.Format, len(d.doc.Lines))
	return title + "  " + types.OverlaySubtitleStyle.Render(sub)
}

func (d *DocumentOverlay) renderFooter() string {
	var parts []string
	if d.doc != nil && d.selected >= 0 && d.selected < len(d.doc.Links) {
		link := d.doc.Links[d.selected]
		parts = append(parts, lipgloss.NewStyle().Foreground(types.MintGreen).
			Render(fmt.Sprintf("→ %s (%s)", link.Text, link.Href)))
	}
	hints := "↑/↓: Scroll • Tab: Next link • Enter: Follow • Esc: Close"
	if d.state == document.Failed {
		hints = "r: Retry • Esc: Close"
	}
	parts = append(parts, types.OverlayHelpStyle.Render(hints))
	return strings.Join(parts, "\n")
}

// View renders the document overlay
func (d *DocumentOverlay) View() string {
	return d.BaseOverlay.View(d.Width())
}
