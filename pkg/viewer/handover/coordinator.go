// Package handover arbitrates whether the agent or the human owns input to
// the remote surface.
//
// Control moves AgentControlled -> HumanControlled only while the run is
// active, and returns HumanControlled -> FeedbackPending -> AgentControlled
// only after the human writes a note describing what they did. A run status
// change never reverts control on its own.
package handover

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/lookout/pkg/logging"
)

// CautionMessage is logged and shown whenever a human takes control.
const CautionMessage = "Agents cannot see what you do when you take control. Be cautious about entering passwords or sensitive information."

var (
	// ErrInvalidTransition is returned when an operation is not valid from the current state.
	ErrInvalidTransition = errors.New("invalid control transition")

	// ErrEmptyFeedback is returned when a handback note is blank.
	ErrEmptyFeedback = errors.New("feedback note is required to hand back control")
)

// Callbacks are the caller hooks fired by the coordinator.
type Callbacks struct {
	// OnPause asks the caller to pause the agent run.
	OnPause func()
	// OnTakeControl reports that the human now has control.
	OnTakeControl func()
	// OnFeedback receives the handback note exactly once per handback.
	OnFeedback func(text string)
}

// Transition describes one applied state change.
type Transition struct {
	From State
	To   State
	At   time.Time
}

// Coordinator is the control handover state machine. It is safe for
// concurrent use; every transition is applied atomically before its
// callbacks run, so a repeated request observes the new state and no-ops.
type Coordinator struct {
	mu        sync.Mutex
	state     State
	callbacks Callbacks
	observers []func(Transition)
	logger    logging.Interface
}

// New creates a coordinator in AgentControlled.
func New(callbacks Callbacks, logger logging.Interface) *Coordinator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Coordinator{
		state:     AgentControlled,
		callbacks: callbacks,
		logger:    logger,
	}
}

// OnTransition registers an observer called after every applied transition.
func (c *Coordinator) OnTransition(fn func(Transition)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// State returns the current control state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TakeControl hands the surface to the human. It is a no-op, with no
// callbacks, unless runStatus is active and the agent currently has control.
// When it applies, OnPause then OnTakeControl fire exactly once each.
func (c *Coordinator) TakeControl(runStatus string) bool {
	if !IsActive(runStatus) {
		c.logger.Debugf("take control ignored: run status %q is not active", runStatus)
		return false
	}

	t, ok := c.transition(AgentControlled, HumanControlled)
	if !ok {
		c.logger.Debugf("take control ignored: state is %s", c.State())
		return false
	}

	if c.callbacks.OnPause != nil {
		c.callbacks.OnPause()
	}
	if c.callbacks.OnTakeControl != nil {
		c.callbacks.OnTakeControl()
	}
	c.logger.Warnf("%s", CautionMessage)
	c.notify(t)
	return true
}

// RequestHandback moves HumanControlled to FeedbackPending.
func (c *Coordinator) RequestHandback() error {
	t, ok := c.transition(HumanControlled, FeedbackPending)
	if !ok {
		return c.invalid("request handback")
	}
	c.notify(t)
	return nil
}

// CancelHandback abandons the feedback form and returns to HumanControlled.
// Nothing is forwarded.
func (c *Coordinator) CancelHandback() error {
	t, ok := c.transition(FeedbackPending, HumanControlled)
	if !ok {
		return c.invalid("cancel handback")
	}
	c.notify(t)
	return nil
}

// SubmitFeedback forwards the note and returns control to the agent.
// A blank note leaves the state unchanged.
func (c *Coordinator) SubmitFeedback(text string) error {
	if strings.TrimSpace(text) == "" {
		if c.State() != FeedbackPending {
			return c.invalid("submit feedback")
		}
		return ErrEmptyFeedback
	}

	t, ok := c.transition(FeedbackPending, AgentControlled)
	if !ok {
		return c.invalid("submit feedback")
	}

	if c.callbacks.OnFeedback != nil {
		c.callbacks.OnFeedback(text)
	}
	c.logger.Infof("control handed back to agent")
	c.notify(t)
	return nil
}

// IsHandoverActive reports whether the human holds control or is writing
// the handback note. Presentation close requests are refused while true.
func (c *Coordinator) IsHandoverActive() bool {
	s := c.State()
	return s == HumanControlled || s == FeedbackPending
}

// ShowTakeControlAffordance reports whether the "Take Control" prompt is
// offered over the surface.
func (c *Coordinator) ShowTakeControlAffordance(runStatus string, hovered bool) bool {
	return hovered && IsActive(runStatus) && c.State() == AgentControlled
}

// ShowSecurityNotice reports whether the persistent security notice is shown.
func (c *Coordinator) ShowSecurityNotice() bool {
	return c.IsHandoverActive()
}

// ShowControlIndicator reports whether the "You have control" badge is shown.
func (c *Coordinator) ShowControlIndicator() bool {
	return c.IsHandoverActive()
}

// ShowFeedbackForm reports whether the handback note is being collected.
func (c *Coordinator) ShowFeedbackForm() bool {
	return c.State() == FeedbackPending
}

// Reset returns to AgentControlled without firing callbacks. Used when the
// viewer is remounted for a new session.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = AgentControlled
}

func (c *Coordinator) transition(from, to State) (Transition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != from {
		return Transition{}, false
	}
	c.state = to
	return Transition{From: from, To: to, At: time.Now()}, true
}

func (c *Coordinator) notify(t Transition) {
	c.mu.Lock()
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	c.logger.Debugf("control %s -> %s", t.From, t.To)
	for _, fn := range observers {
		fn(t)
	}
}

func (c *Coordinator) invalid(op string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, op, c.State())
}
