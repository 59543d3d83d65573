package overlay

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/lookout/pkg/executor/tui/types"
	"github.com/entrhq/lookout/pkg/viewer/handover"
)

// FeedbackOverlay is the handback form: the human describes what they did
// before control returns to the agent.
type FeedbackOverlay struct {
	input   textarea.Model
	width   int
	height  int
	focused bool
	errMsg  string
}

// NewFeedbackOverlay creates the feedback form.
func NewFeedbackOverlay(width, height int) *FeedbackOverlay {
	w, _ := modalSize(width, height)
	w = min(w, 90)

	ta := textarea.New()
	ta.Placeholder = "What did you change? The agent continues from here."
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetWidth(w - 8)
	ta.SetHeight(6)
	ta.Focus()

	return &FeedbackOverlay{input: ta, width: w, height: 16, focused: true}
}

// Update handles messages for the feedback form
func (f *FeedbackOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case keyEsc:
			if err := actions.CancelHandback(); err != nil {
				actions.ShowToast("Cannot cancel", err.Error(), "⚠️", true)
				return f, nil
			}
			return nil, nil
		case keyCtrlS:
			return f.submit(actions)
		case keyEnter:
			if !key.Alt {
				return f.submit(actions)
			}
			f.input.InsertString("\n")
			return f, nil
		}
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.errMsg != "" && strings.TrimSpace(f.input.Value()) != "" {
		f.errMsg = ""
	}
	return f, cmd
}

func (f *FeedbackOverlay) submit(actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	err := actions.SubmitFeedback(f.input.Value())
	switch {
	case errors.Is(err, handover.ErrEmptyFeedback):
		f.errMsg = "Please describe what you did before handing back control."
		return f, nil
	case err != nil:
		actions.ShowToast("Could not hand back control", err.Error(), "❌", true)
		return f, nil
	}
	actions.ShowToast("Control returned", "Agents have control again", "✅", false)
	return nil, nil
}

// Value returns the note typed so far.
func (f *FeedbackOverlay) Value() string {
	return f.input.Value()
}

// View renders the feedback form
func (f *FeedbackOverlay) View() string {
	sections := []string{
		types.OverlayTitleStyle.Render("Give control back to Agents"),
		types.OverlaySubtitleStyle.Render("Agents can't see what you do when you take control."),
		types.OverlaySubtitleStyle.Render("Describe what you did so they can continue."),
		"",
		f.input.View(),
	}
	if f.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(types.ErrorRed).Render(f.errMsg))
	}
	sections = append(sections, "",
		types.OverlayHelpStyle.Render("Enter: Submit • Alt+Enter: New line • Esc: Keep control"))

	return types.CreateOverlayContainerStyle(f.width).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// Width returns the overlay width
func (f *FeedbackOverlay) Width() int { return f.width }

// Height returns the overlay height
func (f *FeedbackOverlay) Height() int { return f.height }

// SetDimensions updates the overlay dimensions
func (f *FeedbackOverlay) SetDimensions(width, height int) {
	f.width, f.height = width, height
}

// Focused returns whether this overlay should handle input
func (f *FeedbackOverlay) Focused() bool { return f.focused }

// SetFocused sets the focus state
func (f *FeedbackOverlay) SetFocused(focused bool) {
	f.focused = focused
	if focused {
		f.input.Focus()
	} else {
		f.input.Blur()
	}
}
