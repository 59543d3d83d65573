package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/lookout/pkg/executor/tui/overlay"
	tuitypes "github.com/entrhq/lookout/pkg/executor/tui/types"
	"github.com/entrhq/lookout/pkg/types"
	"github.com/entrhq/lookout/pkg/viewer/document"
	"github.com/entrhq/lookout/pkg/viewer/handover"
	"github.com/entrhq/lookout/pkg/viewer/remote"
)

// StateProvider

// Surface returns the remote surface snapshot.
func (m *model) Surface() remote.Surface { return m.viewer.Surface() }

// SurfaceURL returns the live view URL, or "" before the session starts.
func (m *model) SurfaceURL() string {
	url, err := m.viewer.SurfaceURL()
	if err != nil {
		return ""
	}
	return url
}

// Dimensions returns the last observed surface size.
func (m *model) Dimensions() remote.Size { return m.viewer.Dimensions() }

// DimensionsVisible reports whether the W × H indicator is on.
func (m *model) DimensionsVisible() bool { return m.showDimensions }

// ControlState returns the handover state.
func (m *model) ControlState() handover.State { return m.viewer.ControlState() }

// RunStatus returns the caller's run status.
func (m *model) RunStatus() string { return m.viewer.RunStatus() }

// PlanRef returns the plan awaiting review, if any.
func (m *model) PlanRef() string { return m.viewer.Props().PlanRef }

// Preview returns the document preview.
func (m *model) Preview() *document.Preview { return m.viewer.Preview() }

// DocumentTitle returns the document modal title.
func (m *model) DocumentTitle() string { return m.viewer.DocumentTitle() }

// Spinner renders the loading spinner frame.
func (m *model) Spinner() string { return m.spinner.View() }

// Settings returns the values the settings overlay edits.
func (m *model) Settings() tuitypes.Settings {
	p := m.viewer.Params()
	return tuitypes.Settings{
		Quality:        p.Quality,
		Scaling:        p.Scaling,
		ViewOnly:       p.ViewOnly,
		ShowDimensions: m.showDimensions,
	}
}

// ActionHandler

// ShowToast displays a toast notification
func (m *model) ShowToast(message, details, icon string, isError bool) {
	m.toast = &toastNotification{
		active:    true,
		message:   message,
		details:   details,
		icon:      icon,
		isError:   isError,
		showUntil: time.Now().Add(m.toastDuration),
	}
}

// ClearOverlay closes the current overlay, returning to the one beneath.
// Closing a maximized surface demotes the viewer's presentation; the
// control overlay stays up for as long as the handover is active.
func (m *model) ClearOverlay() {
	switch m.overlay.mode {
	case tuitypes.OverlayModeDocument, tuitypes.OverlayModeRemoteSurface:
		if err := m.viewer.Close(); err != nil {
			debugLog.Printf("close refused: %v", err)
			return
		}
	case tuitypes.OverlayModeControl:
		if !m.viewer.CloseAllowed() {
			return
		}
		_ = m.viewer.Close()
	}
	m.overlay.popOverlay()
}

// PushOverlay opens overlay on top of the current one.
func (m *model) PushOverlay(mode tuitypes.OverlayMode, o tuitypes.Overlay) {
	m.overlay.pushOverlay(mode, o)
}

// Quit triggers application exit by setting a flag that will be checked in the Update loop.
func (m *model) Quit() {
	m.shouldQuit = true
}

// RequestHandback opens the feedback form over the control overlay.
func (m *model) RequestHandback() error {
	if err := m.viewer.RequestHandback(); err != nil {
		return err
	}
	m.overlay.pushOverlay(tuitypes.OverlayModeFeedback, overlay.NewFeedbackOverlay(m.width, m.height))
	return nil
}

// CancelHandback keeps control with the human.
func (m *model) CancelHandback() error {
	return m.viewer.CancelHandback()
}

// SubmitFeedback returns control to the agent and closes every overlay.
func (m *model) SubmitFeedback(text string) error {
	if err := m.viewer.SubmitFeedback(text); err != nil {
		return err
	}
	m.overlay.clear()
	return nil
}

// HandoverFromModal opens the control overlay with the feedback form.
func (m *model) HandoverFromModal() error {
	if err := m.viewer.HandoverFromModal(); err != nil {
		return err
	}
	m.overlay.activateAndClearStack(tuitypes.OverlayModeControl, overlay.NewControlOverlay(m, m.width, m.height))
	m.overlay.pushOverlay(tuitypes.OverlayModeFeedback, overlay.NewFeedbackOverlay(m.width, m.height))
	return nil
}

// FollowLink resolves a link in the document.
func (m *model) FollowLink(link document.Link) (document.Action, error) {
	return m.viewer.FollowLink(link)
}

// Respond forwards an approval decision.
func (m *model) Respond(text string, accepted bool) error {
	return m.viewer.Respond(text, accepted)
}

// RespondToPlan forwards a plan decision.
func (m *model) RespondToPlan(text, planRef string, accepted bool) error {
	return m.viewer.RespondToPlan(text, planRef, accepted)
}

// RetryDocument re-runs a failed document load.
func (m *model) RetryDocument() tea.Cmd {
	job := m.viewer.RetryDocument()
	if job == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return tuitypes.DocumentResultMsg{Result: job.Run(ctx)}
	}
}

// ApplySettings applies edited settings immediately and persists them in
// the background. A failed save leaves the new values applied.
func (m *model) ApplySettings(s tuitypes.Settings) tea.Cmd {
	work, err := m.viewer.SetParams(remote.Params{Quality: s.Quality, Scaling: s.Scaling, ViewOnly: s.ViewOnly})
	if err != nil {
		m.ShowToast("Invalid settings", err.Error(), "❌", true)
		return nil
	}
	m.showDimensions = s.ShowDimensions
	return tea.Batch(m.runWork(work), m.saveSettings(s))
}

func (m *model) saveSettings(s tuitypes.Settings) tea.Cmd {
	cfg := m.config
	if cfg == nil {
		return nil
	}
	return func() tea.Msg {
		if v := cfg.Viewer(); v != nil {
			v.SetQuality(s.Quality)
			v.SetScaling(string(s.Scaling))
			v.SetViewOnly(s.ViewOnly)
		}
		if ui := cfg.UI(); ui != nil {
			ui.SetShowDimensions(s.ShowDimensions)
		}
		if err := cfg.SaveAll(); err != nil {
			return tuitypes.ConfigSavedMsg{Err: &types.PersistenceError{Op: "save settings", Err: err}}
		}
		return tuitypes.ConfigSavedMsg{}
	}
}

var (
	_ tuitypes.StateProvider = (*model)(nil)
	_ tuitypes.ActionHandler = (*model)(nil)
)
