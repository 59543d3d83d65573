package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/lookout/pkg/executor/tui/types"
)

// ApprovalChoice is the selected button.
type ApprovalChoice int

const (
	ApprovalChoiceAccept ApprovalChoice = iota
	ApprovalChoiceReject
)

// ApprovalOverlay answers a run that is awaiting input. With a plan
// reference it accepts or regenerates the plan; otherwise it approves or
// denies the pending step. An optional note travels with the decision.
type ApprovalOverlay struct {
	note     textarea.Model
	planRef  string
	selected ApprovalChoice
	width    int
	height   int
	focused  bool
}

// NewApprovalOverlay creates the approval overlay. planRef may be empty.
func NewApprovalOverlay(planRef string, width, height int) *ApprovalOverlay {
	w, _ := modalSize(width, height)
	w = min(w, 80)

	ta := textarea.New()
	ta.Placeholder = "Optional note"
	ta.ShowLineNumbers = false
	ta.SetWidth(w - 8)
	ta.SetHeight(3)
	ta.Focus()

	return &ApprovalOverlay{note: ta, planRef: planRef, width: w, height: 14, focused: true}
}

func (a *ApprovalOverlay) labels() (accept, reject string) {
	if a.planRef != "" {
		return " ✓ Accept plan ", " ↻ Regenerate "
	}
	return " ✓ Approve ", " ✗ Deny "
}

// Update handles messages for the approval overlay
func (a *ApprovalOverlay) Update(msg tea.Msg, state types.StateProvider, actions types.ActionHandler) (types.Overlay, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case keyEsc, keyCtrlC:
			return nil, nil
		case keyTab, keyShiftTab:
			a.selected = 1 - a.selected
			return a, nil
		case "ctrl+a":
			return a.decide(actions, true)
		case "ctrl+r":
			return a.decide(actions, false)
		case keyEnter:
			return a.decide(actions, a.selected == ApprovalChoiceAccept)
		}
	}

	var cmd tea.Cmd
	a.note, cmd = a.note.Update(msg)
	return a, cmd
}

func (a *ApprovalOverlay) decide(actions types.ActionHandler, accepted bool) (types.Overlay, tea.Cmd) {
	text := strings.TrimSpace(a.note.Value())
	var err error
	if a.planRef != "" {
		err = actions.RespondToPlan(text, a.planRef, accepted)
	} else {
		err = actions.Respond(text, accepted)
	}
	if err != nil {
		actions.ShowToast("Response not sent", err.Error(), "❌", true)
		return nil, nil
	}
	if accepted {
		actions.ShowToast("Approved", text, "✅", false)
	} else {
		actions.ShowToast("Declined", text, "✋", false)
	}
	return nil, nil
}

// Selected returns the highlighted choice.
func (a *ApprovalOverlay) Selected() ApprovalChoice {
	return a.selected
}

// View renders the approval overlay
func (a *ApprovalOverlay) View() string {
	title := "Approval required"
	if a.planRef != "" {
		title = "Review plan " + a.planRef
	}

	acceptLabel, rejectLabel := a.labels()
	accept, reject := types.ButtonStyle.Render(acceptLabel), types.ButtonStyle.Render(rejectLabel)
	if a.selected == ApprovalChoiceAccept {
		accept = types.ActiveButtonStyle.Render(acceptLabel)
	} else {
		reject = types.ActiveButtonStyle.Render(rejectLabel)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		types.OverlayTitleStyle.Render(title),
		types.OverlaySubtitleStyle.Render("The run is waiting for your decision."),
		"",
		a.note.View(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, accept, "  ", reject),
		"",
		types.OverlayHelpStyle.Render("Ctrl+A: Accept • Ctrl+R: Reject • Tab: Toggle • Enter: Submit • Esc: Later"),
	)
	return types.CreateOverlayContainerStyle(a.width).Render(body)
}

// Width returns the overlay width
func (a *ApprovalOverlay) Width() int { return a.width }

// Height returns the overlay height
func (a *ApprovalOverlay) Height() int { return a.height }

// SetDimensions updates the overlay dimensions
func (a *ApprovalOverlay) SetDimensions(width, height int) {
	a.width, a.height = width, height
}

// Focused returns whether this overlay should handle input
func (a *ApprovalOverlay) Focused() bool { return a.focused }

// SetFocused sets the focus state
func (a *ApprovalOverlay) SetFocused(focused bool) { a.focused = focused }
