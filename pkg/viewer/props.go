package viewer

import (
	"time"

	"github.com/entrhq/lookout/pkg/config"
	"github.com/entrhq/lookout/pkg/types"
	"github.com/entrhq/lookout/pkg/viewer/document"
	"github.com/entrhq/lookout/pkg/viewer/gallery"
	"github.com/entrhq/lookout/pkg/viewer/remote"
)

// Props is the session state supplied and refreshed by the caller.
type Props struct {
	Screenshots  []gallery.Screenshot
	CurrentIndex int
	// Endpoint is nil until the remote session starts
	Endpoint    *remote.Endpoint
	RunStatus   string
	DocumentRef string
	// ActiveMode is the caller's tab selection; nil lets the viewer keep its own
	ActiveMode *Mode
	PlanRef    string
}

// Callbacks are the caller's hooks. Any may be nil.
type Callbacks struct {
	OnIndexChange   func(index int)
	OnPause         func()
	OnTakeControl   func()
	OnModeChange    func(mode Mode)
	OnInputResponse func(resp types.InputResponse)
	OnDimensions    func(size remote.Size)
}

// Config is the explicit configuration for a Viewer.
type Config struct {
	Remote       remote.Config
	FetchTimeout time.Duration
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Remote:       remote.DefaultConfig(),
		FetchTimeout: 30 * time.Second,
	}
}

// ConfigFromSettings maps the viewer settings section onto a Config.
func ConfigFromSettings(s config.ViewerSettings) Config {
	cfg := Config{
		Remote:       remote.ConfigFromSettings(s),
		FetchTimeout: s.FetchTimeout,
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return cfg
}

// Work is the asynchronous work an update asks the event loop to start.
type Work struct {
	// Document is the fetch and render to run, if any
	Document *document.Job
	// Connect asks for a remote surface connection attempt
	Connect bool
}

// Empty reports whether there is nothing to start.
func (w Work) Empty() bool {
	return w.Document == nil && !w.Connect
}
