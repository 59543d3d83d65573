package remote

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/entrhq/lookout/pkg/config"
	"github.com/entrhq/lookout/pkg/types"
)

// DefaultHost is used when neither the endpoint nor the config names a host.
const DefaultHost = "localhost"

// Endpoint is the (host, port) of a live remote-desktop stream. A nil
// *Endpoint means the session has not started.
type Endpoint struct {
	Host string `yaml:"host,omitempty" json:"host,omitempty"`
	Port int    `yaml:"port" json:"port"`
}

func (e Endpoint) String() string {
	return e.Host + ":" + strconv.Itoa(e.Port)
}

// Scaling is how the remote framebuffer is fitted to the surface.
type Scaling string

const (
	ScalingLocal  Scaling = "local"
	ScalingRemote Scaling = "remote"
	ScalingNone   Scaling = "none"
)

// Strategy selects how the surface is rendered.
type Strategy string

const (
	StrategyEmbeddedFrame   Strategy = "embedded-frame"
	StrategyStreamingViewer Strategy = "streaming-viewer"
)

// Params are forwarded verbatim into the connection URL.
type Params struct {
	Quality  int // 0-9, higher is more fidelity and bandwidth
	Scaling  Scaling
	ViewOnly bool
}

// DefaultParams returns quality 7, local scaling, interactive.
func DefaultParams() Params {
	return Params{Quality: 7, Scaling: ScalingLocal}
}

// Validate checks the quality range and scaling enumeration.
func (p Params) Validate() error {
	if p.Quality < 0 || p.Quality > 9 {
		return types.NewValidationError("quality", "must be between 0 and 9, got %d", p.Quality)
	}
	switch p.Scaling {
	case ScalingLocal, ScalingRemote, ScalingNone:
	default:
		return types.NewValidationError("scaling", "must be local, remote or none, got %q", p.Scaling)
	}
	return nil
}

// Size is a surface size in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%d × %d", s.Width, s.Height)
}

// Config is the explicit configuration handed to a Connector.
type Config struct {
	// Scheme for the embedded frame URL; empty means http
	Scheme string
	// ServerHost replaces an empty endpoint host; empty means DefaultHost
	ServerHost     string
	Params         Params
	Strategy       Strategy
	ConnectTimeout time.Duration
	// FrameSize is the size the surface is given by its container
	FrameSize Size
}

// DefaultConfig returns the defaults used when no settings are loaded.
func DefaultConfig() Config {
	return Config{
		Scheme:         "http",
		ServerHost:     DefaultHost,
		Params:         DefaultParams(),
		Strategy:       StrategyEmbeddedFrame,
		ConnectTimeout: 10 * time.Second,
		FrameSize:      Size{Width: 1280, Height: 720},
	}
}

// ConfigFromSettings maps the viewer settings section onto a Config.
// server_url may be a bare host or a URL; a URL also sets the scheme.
func ConfigFromSettings(s config.ViewerSettings) Config {
	cfg := DefaultConfig()
	cfg.Params = Params{Quality: s.Quality, Scaling: Scaling(s.Scaling), ViewOnly: s.ViewOnly}
	if s.RenderStrategy != "" {
		cfg.Strategy = Strategy(s.RenderStrategy)
	}
	if s.ConnectTimeout > 0 {
		cfg.ConnectTimeout = s.ConnectTimeout
	}

	server := strings.TrimSpace(s.ServerURL)
	if strings.Contains(server, "://") {
		if u, err := url.Parse(server); err == nil && u.Hostname() != "" {
			cfg.Scheme = u.Scheme
			cfg.ServerHost = u.Hostname()
		}
	} else if server != "" {
		cfg.ServerHost = server
	}
	return cfg
}

// Resolve fills an empty endpoint host from the config.
func (c Config) Resolve(ep Endpoint) Endpoint {
	if ep.Host == "" {
		ep.Host = c.ServerHost
	}
	if ep.Host == "" {
		ep.Host = DefaultHost
	}
	return ep
}

// BuildURL builds the embedded-frame viewer URL. The parameter order is
// fixed; the remote-desktop server reads it as-is.
func BuildURL(scheme string, ep Endpoint, p Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if ep.Port <= 0 || ep.Port > 65535 {
		return "", types.NewValidationError("port", "must be between 1 and 65535, got %d", ep.Port)
	}
	if scheme == "" {
		scheme = "http"
	}
	host := ep.Host
	if host == "" {
		host = DefaultHost
	}

	resize := "scale"
	if p.Scaling == ScalingRemote {
		resize = "remote"
	}
	viewOnly := 0
	if p.ViewOnly {
		viewOnly = 1
	}

	return fmt.Sprintf(
		"%s://%s:%d/vnc.html?autoconnect=true&resize=%s&show_dot=true&scaling=%s&quality=%d&compression=0&view_only=%d",
		scheme, host, ep.Port, resize, p.Scaling, p.Quality, viewOnly,
	), nil
}

// BuildStreamURL builds the websocket URL the streaming viewer connects to.
func BuildStreamURL(ep Endpoint) (string, error) {
	if ep.Port <= 0 || ep.Port > 65535 {
		return "", types.NewValidationError("port", "must be between 1 and 65535, got %d", ep.Port)
	}
	host := ep.Host
	if host == "" {
		host = DefaultHost
	}
	return fmt.Sprintf("ws://%s:%d", host, ep.Port), nil
}
