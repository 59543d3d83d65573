package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDViewer is the identifier for the remote session viewer section
	SectionIDViewer = "viewer"

	defaultServerURL      = ""
	defaultQuality        = 7
	defaultScaling        = "local"
	defaultViewOnly       = false
	defaultRenderStrategy = "embedded-frame"
	defaultFetchTimeout   = 30 * time.Second
	defaultConnectTimeout = 10 * time.Second
)

// ViewerSection holds the remote surface and document preview settings.
type ViewerSection struct {
	// ServerURL is the remote-desktop host; empty falls back to localhost
	ServerURL      string        `json:"server_url"`
	Quality        int           `json:"quality"`
	Scaling        string        `json:"scaling"`
	ViewOnly       bool          `json:"view_only"`
	RenderStrategy string        `json:"render_strategy"`
	FetchTimeout   time.Duration `json:"fetch_timeout"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	mu             sync.RWMutex
}

// ViewerSettings is an immutable snapshot of ViewerSection.
type ViewerSettings struct {
	ServerURL      string
	Quality        int
	Scaling        string
	ViewOnly       bool
	RenderStrategy string
	FetchTimeout   time.Duration
	ConnectTimeout time.Duration
}

// NewViewerSection creates a viewer section with default settings.
func NewViewerSection() *ViewerSection {
	s := &ViewerSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *ViewerSection) ID() string { return SectionIDViewer }

// Title returns the section title.
func (s *ViewerSection) Title() string { return "Session Viewer" }

// Description returns the section description.
func (s *ViewerSection) Description() string {
	return "Remote desktop connection quality, scaling, and document fetch limits."
}

// Data returns the current configuration data.
func (s *ViewerSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"server_url":      s.ServerURL,
		"quality":         s.Quality,
		"scaling":         s.Scaling,
		"view_only":       s.ViewOnly,
		"render_strategy": s.RenderStrategy,
		"fetch_timeout":   s.FetchTimeout.String(),
		"connect_timeout": s.ConnectTimeout.String(),
	}
}

// SetData updates the section from stored data. Unknown keys are ignored.
func (s *ViewerSection) SetData(data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "server_url":
			err = assign(&s.ServerURL, key, value)
		case "scaling":
			err = assign(&s.Scaling, key, value)
		case "render_strategy":
			err = assign(&s.RenderStrategy, key, value)
		case "view_only":
			err = assign(&s.ViewOnly, key, value)
		case "quality":
			switch v := value.(type) {
			case float64:
				s.Quality = int(v)
			case int:
				s.Quality = v
			default:
				err = fmt.Errorf("invalid value type for quality: expected number, got %T", value)
			}
		case "fetch_timeout":
			err = assignDuration(&s.FetchTimeout, key, value)
		case "connect_timeout":
			err = assignDuration(&s.ConnectTimeout, key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate checks ranges and enumerations.
func (s *ViewerSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Quality < 0 || s.Quality > 9 {
		return fmt.Errorf("quality must be between 0 and 9, got %d", s.Quality)
	}
	switch s.Scaling {
	case "local", "remote", "none":
	default:
		return fmt.Errorf("scaling must be one of local, remote, none, got %q", s.Scaling)
	}
	switch s.RenderStrategy {
	case "embedded-frame", "streaming-viewer":
	default:
		return fmt.Errorf("render_strategy must be embedded-frame or streaming-viewer, got %q", s.RenderStrategy)
	}
	if s.FetchTimeout <= 0 || s.ConnectTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// Reset restores defaults.
func (s *ViewerSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ServerURL = defaultServerURL
	s.Quality = defaultQuality
	s.Scaling = defaultScaling
	s.ViewOnly = defaultViewOnly
	s.RenderStrategy = defaultRenderStrategy
	s.FetchTimeout = defaultFetchTimeout
	s.ConnectTimeout = defaultConnectTimeout
}

// Snapshot returns a copy of the current settings.
func (s *ViewerSection) Snapshot() ViewerSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ViewerSettings{
		ServerURL:      s.ServerURL,
		Quality:        s.Quality,
		Scaling:        s.Scaling,
		ViewOnly:       s.ViewOnly,
		RenderStrategy: s.RenderStrategy,
		FetchTimeout:   s.FetchTimeout,
		ConnectTimeout: s.ConnectTimeout,
	}
}

// SetQuality sets the render quality, clamped to 0-9.
func (s *ViewerSection) SetQuality(q int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Quality = min(max(q, 0), 9)
}

// SetScaling sets the scaling mode.
func (s *ViewerSection) SetScaling(scaling string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Scaling = scaling
}

// SetViewOnly toggles whether the remote surface accepts input.
func (s *ViewerSection) SetViewOnly(viewOnly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ViewOnly = viewOnly
}

func assign[T any](dst *T, key string, value interface{}) error {
	v, ok := value.(T)
	if !ok {
		return fmt.Errorf("invalid value type for %s: expected %T, got %T", key, *dst, value)
	}
	*dst = v
	return nil
}

// assignDuration accepts duration strings and raw nanosecond numbers
// (JSON numbers arrive as float64).
func assignDuration(dst *time.Duration, key string, value interface{}) error {
	switch v := value.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration string for %s: %w", key, err)
		}
		*dst = d
	case float64:
		*dst = time.Duration(v)
	case int64:
		*dst = time.Duration(v)
	default:
		return fmt.Errorf("invalid value type for %s: expected string or number, got %T", key, value)
	}
	return nil
}
