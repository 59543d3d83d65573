package types

import (
	"time"

	"github.com/google/uuid"
)

// ViewerEventType defines the kind of notification the viewer sends to its caller.
type ViewerEventType string

const (
	EventTypePause         ViewerEventType = "pause"          // EventTypePause asks the caller to pause the agent run.
	EventTypeTakeControl   ViewerEventType = "take_control"   // EventTypeTakeControl reports that the human took control of the remote surface.
	EventTypeIndexChange   ViewerEventType = "index_change"   // EventTypeIndexChange reports a new screenshot index.
	EventTypeModeChange    ViewerEventType = "mode_change"    // EventTypeModeChange reports a new session mode selection.
	EventTypeInputResponse ViewerEventType = "input_response" // EventTypeInputResponse carries feedback or an accept/deny decision.
	EventTypeDimensions    ViewerEventType = "dimensions"     // EventTypeDimensions reports observed remote surface dimensions.
)

// ViewerEvent is one caller notification, serialized as a JSON line by the
// terminal front end.
type ViewerEvent struct {
	ID        string          `json:"id"`
	Type      ViewerEventType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`

	// Index is set for index_change events.
	Index *int `json:"index,omitempty"`

	// Mode is set for mode_change events.
	Mode string `json:"mode,omitempty"`

	// Response is set for input_response events.
	Response *InputResponse `json:"response,omitempty"`

	// Width and Height are set for dimensions events.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

func newEvent(t ViewerEventType) *ViewerEvent {
	return &ViewerEvent{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now().UTC(),
	}
}

// NewPauseEvent creates a pause request.
func NewPauseEvent() *ViewerEvent {
	return newEvent(EventTypePause)
}

// NewTakeControlEvent creates a take-control notification.
func NewTakeControlEvent() *ViewerEvent {
	return newEvent(EventTypeTakeControl)
}

// NewIndexChangeEvent creates a screenshot index notification.
func NewIndexChangeEvent(index int) *ViewerEvent {
	e := newEvent(EventTypeIndexChange)
	e.Index = &index
	return e
}

// NewModeChangeEvent creates a mode selection notification.
func NewModeChangeEvent(mode string) *ViewerEvent {
	e := newEvent(EventTypeModeChange)
	e.Mode = mode
	return e
}

// NewInputResponseEvent wraps an input response.
func NewInputResponseEvent(resp InputResponse) *ViewerEvent {
	e := newEvent(EventTypeInputResponse)
	e.Response = &resp
	return e
}

// NewDimensionsEvent reports remote surface dimensions.
func NewDimensionsEvent(width, height int) *ViewerEvent {
	e := newEvent(EventTypeDimensions)
	e.Width = width
	e.Height = height
	return e
}
