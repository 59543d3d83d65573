package session

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/entrhq/lookout/pkg/logging"
	"github.com/entrhq/lookout/pkg/types"
	"github.com/entrhq/lookout/pkg/viewer"
	"github.com/entrhq/lookout/pkg/viewer/remote"
)

// Recorder writes every viewer notification to w as one JSON object per
// line, which is how the caller receives its callbacks.
type Recorder struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
	logger logging.Interface
}

// NewRecorder records to w.
func NewRecorder(w io.Writer, logger logging.Interface) *Recorder {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Recorder{enc: json.NewEncoder(w), logger: logger}
}

// OpenRecorder appends to the file at path, creating it and its directory.
func OpenRecorder(path string, logger logging.Interface) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create response directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open response file: %w", err)
	}
	r := NewRecorder(f, logger)
	r.closer = f
	return r, nil
}

// Record writes one event. Failures are logged; the viewer never sees them.
func (r *Recorder) Record(e *types.ViewerEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enc.Encode(e); err != nil {
		r.logger.Errorf("failed to record %s event: %v", e.Type, err)
	}
}

// Callbacks returns viewer callbacks that record each notification.
func (r *Recorder) Callbacks() viewer.Callbacks {
	return viewer.Callbacks{
		OnIndexChange:   func(i int) { r.Record(types.NewIndexChangeEvent(i)) },
		OnPause:         func() { r.Record(types.NewPauseEvent()) },
		OnTakeControl:   func() { r.Record(types.NewTakeControlEvent()) },
		OnModeChange:    func(m viewer.Mode) { r.Record(types.NewModeChangeEvent(m.String())) },
		OnInputResponse: func(resp types.InputResponse) { r.Record(types.NewInputResponseEvent(resp)) },
		OnDimensions: func(s remote.Size) {
			r.Record(types.NewDimensionsEvent(s.Width, s.Height))
		},
	}
}

// Close closes the underlying file, if the recorder opened one.
func (r *Recorder) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
