package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/entrhq/lookout/pkg/config"
	"github.com/entrhq/lookout/pkg/logging"
	"github.com/entrhq/lookout/pkg/viewer"
	"github.com/entrhq/lookout/pkg/viewer/document"
)

// model represents the state of the TUI application.
// It hosts one session viewer and renders whichever mode it selects.
type model struct {
	// Bubble Tea components
	viewport viewport.Model // inline document body
	spinner  spinner.Model

	// Viewer integration
	viewer *viewer.Viewer
	config *config.Manager // nil when settings are not persisted
	logger logging.Interface
	ctx    context.Context

	// UI state
	overlay        *overlayState
	toast          *toastNotification
	toastDuration  time.Duration
	showDimensions bool
	shownDocument  *document.Document // document currently in the inline viewport
	sessionErr     error

	// Window dimensions
	width  int
	height int
	ready  bool

	// Application state
	shouldQuit bool // Flag to trigger application exit
}

// toastNotification represents a temporary notification message
type toastNotification struct {
	active    bool
	message   string
	details   string
	icon      string
	isError   bool
	showUntil time.Time
}

const defaultToastDuration = 5 * time.Second

// initialModel creates the model around an unmounted viewer.
func initialModel(ctx context.Context, v *viewer.Viewer, cfg *config.Manager, logger logging.Interface) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	if logger == nil {
		logger = logging.Nop()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m := model{
		viewport:       viewport.New(0, 0),
		spinner:        s,
		viewer:         v,
		config:         cfg,
		logger:         logger,
		ctx:            ctx,
		overlay:        newOverlayState(),
		toast:          &toastNotification{},
		toastDuration:  defaultToastDuration,
		showDimensions: true,
	}
	if cfg != nil {
		if ui := cfg.UI(); ui != nil {
			m.showDimensions = ui.DimensionsVisible()
			m.toastDuration = ui.Toast()
		}
	}
	return m
}
