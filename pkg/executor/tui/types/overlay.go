package types

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/lookout/pkg/viewer/document"
	"github.com/entrhq/lookout/pkg/viewer/handover"
	"github.com/entrhq/lookout/pkg/viewer/remote"
)

// Overlay is a modal component layered over the main view.
// Update returning a nil Overlay asks the model to close it.
type Overlay interface {
	Update(msg tea.Msg, state StateProvider, actions ActionHandler) (Overlay, tea.Cmd)
	View() string
	Width() int
	Height() int
	SetDimensions(width, height int)
	Focused() bool
	SetFocused(focused bool)
}

// StateProvider is the read side of the model that overlays render from.
type StateProvider interface {
	Surface() remote.Surface
	SurfaceURL() string
	Dimensions() remote.Size
	DimensionsVisible() bool
	ControlState() handover.State
	RunStatus() string
	PlanRef() string
	Preview() *document.Preview
	DocumentTitle() string
	Spinner() string
	Settings() Settings
}

// ActionHandler is the write side of the model that overlays act through.
type ActionHandler interface {
	ShowToast(message, details, icon string, isError bool)
	ClearOverlay()
	PushOverlay(mode OverlayMode, overlay Overlay)
	Quit()

	RequestHandback() error
	CancelHandback() error
	SubmitFeedback(text string) error
	HandoverFromModal() error
	FollowLink(link document.Link) (document.Action, error)
	Respond(text string, accepted bool) error
	RespondToPlan(text, planRef string, accepted bool) error
	RetryDocument() tea.Cmd
	ApplySettings(settings Settings) tea.Cmd
}

// Settings are the values editable from the settings overlay.
type Settings struct {
	Quality        int
	Scaling        remote.Scaling
	ViewOnly       bool
	ShowDimensions bool
}
