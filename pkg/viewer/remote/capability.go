package remote

import (
	"context"
	"sync"
)

// ViewerFactory produces the streaming viewer on first use.
type ViewerFactory func(ctx context.Context) (StreamViewer, error)

// Capability loads the streaming viewer once, on demand. Until Load
// completes the surface shows the loading-viewer placeholder.
type Capability struct {
	factory ViewerFactory

	mu     sync.Mutex
	viewer StreamViewer
}

// NewCapability wraps factory. A nil factory yields an RFBViewer.
func NewCapability(factory ViewerFactory) *Capability {
	if factory == nil {
		factory = func(context.Context) (StreamViewer, error) {
			return &RFBViewer{}, nil
		}
	}
	return &Capability{factory: factory}
}

// Loaded reports whether the viewer is ready without loading it.
func (c *Capability) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewer != nil
}

// Load returns the viewer, creating it on the first call. A failed load is
// not cached, so a later connection may try again.
func (c *Capability) Load(ctx context.Context) (StreamViewer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.viewer != nil {
		return c.viewer, nil
	}
	v, err := c.factory(ctx)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrViewerUnavailable
	}
	c.viewer = v
	return v, nil
}
