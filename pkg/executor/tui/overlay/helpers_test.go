package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/lookout/pkg/executor/tui/types"
	"github.com/entrhq/lookout/pkg/viewer/document"
	"github.com/entrhq/lookout/pkg/viewer/handover"
	"github.com/entrhq/lookout/pkg/viewer/remote"
)

// fakeModel records every action an overlay takes.
type fakeModel struct {
	toasts    []string
	cleared   int
	pushed    []types.OverlayMode
	responses []string
	applied   []types.Settings

	feedbackErr error
	submitted   []string
	cancels     int
	handbacks   int
	handovers   int
	retries     int

	state    handover.State
	settings types.Settings
	preview  *document.Preview
}

func (f *fakeModel) Surface() remote.Surface      { return remote.Surface{} }
func (f *fakeModel) SurfaceURL() string           { return "" }
func (f *fakeModel) Dimensions() remote.Size      { return remote.Size{} }
func (f *fakeModel) DimensionsVisible() bool      { return f.settings.ShowDimensions }
func (f *fakeModel) ControlState() handover.State { return f.state }
func (f *fakeModel) RunStatus() string            { return "" }
func (f *fakeModel) PlanRef() string              { return "" }
func (f *fakeModel) Preview() *document.Preview   { return f.preview }
func (f *fakeModel) DocumentTitle() string        { return "" }
func (f *fakeModel) Spinner() string              { return "." }
func (f *fakeModel) Settings() types.Settings     { return f.settings }

func (f *fakeModel) ShowToast(message, details, icon string, isError bool) {
	f.toasts = append(f.toasts, message)
}
func (f *fakeModel) ClearOverlay() { f.cleared++ }
func (f *fakeModel) PushOverlay(mode types.OverlayMode, o types.Overlay) {
	f.pushed = append(f.pushed, mode)
}
func (f *fakeModel) Quit() {}

func (f *fakeModel) RequestHandback() error { f.handbacks++; return nil }
func (f *fakeModel) CancelHandback() error  { f.cancels++; return nil }
func (f *fakeModel) SubmitFeedback(text string) error {
	if f.feedbackErr != nil {
		return f.feedbackErr
	}
	f.submitted = append(f.submitted, text)
	return nil
}
func (f *fakeModel) HandoverFromModal() error { f.handovers++; return nil }
func (f *fakeModel) FollowLink(link document.Link) (document.Action, error) {
	return document.Action{}, nil
}
func (f *fakeModel) Respond(text string, accepted bool) error {
	f.responses = append(f.responses, decision("step", text, accepted))
	return nil
}
func (f *fakeModel) RespondToPlan(text, planRef string, accepted bool) error {
	f.responses = append(f.responses, decision(planRef, text, accepted))
	return nil
}
func (f *fakeModel) RetryDocument() tea.Cmd { f.retries++; return nil }
func (f *fakeModel) ApplySettings(s types.Settings) tea.Cmd {
	f.applied = append(f.applied, s)
	return nil
}

func decision(subject, text string, accepted bool) string {
	verdict := "reject"
	if accepted {
		verdict = "accept"
	}
	return subject + ":" + verdict + ":" + text
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	_ types.StateProvider = (*fakeModel)(nil)
	_ types.ActionHandler = (*fakeModel)(nil)
)
