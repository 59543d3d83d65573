package remote

import (
	"context"
	"sync"

	"github.com/entrhq/lookout/pkg/logging"
)

// SurfaceState is the visible lifecycle of the remote surface.
type SurfaceState int

const (
	SurfaceWaiting SurfaceState = iota
	SurfaceLoadingViewer
	SurfaceConnecting
	SurfaceLive
	SurfaceBroken
)

func (s SurfaceState) String() string {
	switch s {
	case SurfaceWaiting:
		return "waiting"
	case SurfaceLoadingViewer:
		return "loading-viewer"
	case SurfaceConnecting:
		return "connecting"
	case SurfaceLive:
		return "live"
	case SurfaceBroken:
		return "broken"
	default:
		return "unknown"
	}
}

// Placeholder texts.
const (
	WaitingText       = "Waiting for browser session to start..."
	LoadingViewerText = "Loading VNC viewer..."
	ConnectingText    = "Connecting..."
)

// Surface is a snapshot of the remote surface.
type Surface struct {
	State SurfaceState
	URL   string
	Size  Size
	Err   error
}

// Placeholder returns the text shown instead of the surface, or "" when live.
func (s Surface) Placeholder() string {
	switch s.State {
	case SurfaceWaiting:
		return WaitingText
	case SurfaceLoadingViewer:
		return LoadingViewerText
	case SurfaceConnecting:
		return ConnectingText
	case SurfaceBroken:
		if s.Err != nil {
			return "Remote session unavailable: " + s.Err.Error()
		}
		return "Remote session unavailable"
	default:
		return ""
	}
}

// Controller receives take-control activations from the surface.
type Controller interface {
	TakeControl(runStatus string) bool
}

// Option configures a Connector.
type Option func(*Connector)

// WithFrameLoader replaces the embedded-frame loader.
func WithFrameLoader(l FrameLoader) Option {
	return func(c *Connector) { c.loader = l }
}

// WithCapability replaces the streaming viewer capability.
func WithCapability(capability *Capability) Option {
	return func(c *Connector) { c.capability = capability }
}

// WithDimensions registers the callback for observed surface dimensions.
func WithDimensions(fn func(Size)) Option {
	return func(c *Connector) { c.onDimensions = fn }
}

// WithController routes take-control activations.
func WithController(ctrl Controller) Option {
	return func(c *Connector) { c.controller = ctrl }
}

// WithLogger sets the logger.
func WithLogger(l logging.Interface) Option {
	return func(c *Connector) { c.logger = l }
}

// Connector owns the lifecycle of one remote-desktop connection. It never
// retries; a broken surface stays broken until a new endpoint is supplied.
type Connector struct {
	cfg          Config
	loader       FrameLoader
	capability   *Capability
	onDimensions func(Size)
	controller   Controller
	logger       logging.Interface

	mu       sync.Mutex
	endpoint *Endpoint
	surface  Surface
	gen      uint64
	attempt  uint64
}

// NewConnector creates a connector with no endpoint.
func NewConnector(cfg Config, opts ...Option) *Connector {
	c := &Connector{
		cfg:     cfg,
		surface: Surface{State: SurfaceWaiting},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.loader == nil {
		c.loader = &HTTPFrameLoader{}
	}
	if c.capability == nil {
		c.capability = NewCapability(nil)
	}
	if c.logger == nil {
		c.logger = logging.Nop()
	}
	return c
}

// Config returns the connector configuration.
func (c *Connector) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// SetParams replaces the viewer parameters. It reports whether a session
// is waiting to be reconnected with them; the surface goes back to waiting
// and any attempt in flight is invalidated.
func (c *Connector) SetParams(params Params) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.Params == params {
		return false
	}
	c.cfg.Params = params
	if c.endpoint == nil {
		return false
	}
	c.gen++
	c.surface = Surface{State: SurfaceWaiting}
	return true
}

// SetEndpoint supplies or clears the endpoint. It reports whether the
// endpoint changed; a change resets the surface and invalidates any
// connection attempt in flight.
func (c *Connector) SetEndpoint(ep *Endpoint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	var resolved *Endpoint
	if ep != nil {
		r := c.cfg.Resolve(*ep)
		resolved = &r
	}
	if sameEndpoint(c.endpoint, resolved) {
		return false
	}
	c.endpoint = resolved
	c.gen++
	c.surface = Surface{State: SurfaceWaiting}
	return true
}

// SetFrameSize updates the size the surface is given by its container.
func (c *Connector) SetFrameSize(size Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.FrameSize = size
}

// Endpoint returns a copy of the resolved endpoint, or nil.
func (c *Connector) Endpoint() *Endpoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.endpoint == nil {
		return nil
	}
	ep := *c.endpoint
	return &ep
}

// Surface returns the current surface snapshot.
func (c *Connector) Surface() Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface
}

// URL returns the embedded-frame URL for the current endpoint.
func (c *Connector) URL() (string, error) {
	ep := c.Endpoint()
	if ep == nil {
		return "", ErrConnectionUnavailable
	}
	cfg := c.Config()
	return BuildURL(cfg.Scheme, *ep, cfg.Params)
}

// Connect establishes the surface for the current endpoint. With no
// endpoint it returns the waiting surface without any connection attempt.
// If the endpoint changes while connecting, the result is dropped and the
// newer surface is returned.
func (c *Connector) Connect(ctx context.Context) Surface {
	c.mu.Lock()
	if c.endpoint == nil {
		c.surface = Surface{State: SurfaceWaiting}
		c.mu.Unlock()
		return c.Surface()
	}
	ep := *c.endpoint
	cfg := c.cfg
	gen := c.gen
	c.attempt++
	c.mu.Unlock()

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	var result Surface
	switch cfg.Strategy {
	case StrategyStreamingViewer:
		result = c.connectStreaming(ctx, gen, ep)
	default:
		result = c.connectFrame(ctx, gen, ep, cfg)
	}

	if !c.apply(gen, result) {
		c.logger.Debugf("dropping stale connection result for %s", ep)
		return c.Surface()
	}
	if result.State == SurfaceBroken {
		c.logger.Errorf("remote surface broken: %v", result.Err)
		return result
	}

	c.logger.Infof("remote surface live at %s (%s)", result.URL, result.Size)
	if c.onDimensions != nil {
		c.onDimensions(result.Size)
	}
	return result
}

func (c *Connector) connectFrame(ctx context.Context, gen uint64, ep Endpoint, cfg Config) Surface {
	url, err := BuildURL(cfg.Scheme, ep, cfg.Params)
	if err != nil {
		return Surface{State: SurfaceBroken, Err: err}
	}
	c.apply(gen, Surface{State: SurfaceConnecting, URL: url})

	size, err := c.loader.Load(ctx, url, cfg.FrameSize)
	if err != nil {
		return Surface{State: SurfaceBroken, URL: url, Err: wrapConnectError(stageDial, url, err)}
	}
	return Surface{State: SurfaceLive, URL: url, Size: size}
}

func (c *Connector) connectStreaming(ctx context.Context, gen uint64, ep Endpoint) Surface {
	url, err := BuildStreamURL(ep)
	if err != nil {
		return Surface{State: SurfaceBroken, Err: err}
	}

	if !c.capability.Loaded() {
		c.apply(gen, Surface{State: SurfaceLoadingViewer, URL: url})
	}
	viewer, err := c.capability.Load(ctx)
	if err != nil {
		return Surface{State: SurfaceBroken, URL: url, Err: err}
	}

	c.apply(gen, Surface{State: SurfaceConnecting, URL: url})
	size, err := viewer.Open(ctx, url)
	if err != nil {
		return Surface{State: SurfaceBroken, URL: url, Err: err}
	}
	return Surface{State: SurfaceLive, URL: url, Size: size}
}

func (c *Connector) apply(gen uint64, s Surface) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.surface = s
	return true
}

// Attempts returns how many connection attempts were made.
func (c *Connector) Attempts() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempt
}

// ActivateTakeControl is called when the take-control region over the
// surface is activated.
func (c *Connector) ActivateTakeControl(runStatus string) bool {
	if c.controller == nil {
		return false
	}
	return c.controller.TakeControl(runStatus)
}

// Close invalidates any attempt in flight. The stream needs no drain.
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
}

func sameEndpoint(a, b *Endpoint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
