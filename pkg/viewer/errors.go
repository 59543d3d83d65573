package viewer

import (
	"errors"

	"github.com/entrhq/lookout/pkg/viewer/handover"
	"github.com/entrhq/lookout/pkg/viewer/presentation"
)

// StatusAwaitingInput is the run status in which approval responses are accepted.
const StatusAwaitingInput = "awaiting_input"

var (
	// ErrCloseSuppressed is returned by Close during a control handover.
	ErrCloseSuppressed = presentation.ErrCloseSuppressed

	// ErrInvalidTransition is returned for control operations out of order.
	ErrInvalidTransition = handover.ErrInvalidTransition

	// ErrEmptyFeedback is returned when a handback note is blank.
	ErrEmptyFeedback = handover.ErrEmptyFeedback

	ErrTabsHidden       = errors.New("tabs are hidden while a document is shown")
	ErrNotAwaitingInput = errors.New("run is not awaiting input")
	ErrNoDocument       = errors.New("no document is loaded")
)
