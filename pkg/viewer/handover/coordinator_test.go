package handover

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/entrhq/lookout/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures callback invocations in order
type recorder struct {
	mu       sync.Mutex
	calls    []string
	feedback []string
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnPause:       func() { r.add("pause") },
		OnTakeControl: func() { r.add("take-control") },
		OnFeedback: func(text string) {
			r.add("feedback")
			r.mu.Lock()
			r.feedback = append(r.feedback, text)
			r.mu.Unlock()
		},
	}
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func newCoordinator(t *testing.T) (*Coordinator, *recorder, *bytes.Buffer) {
	t.Helper()
	rec := &recorder{}
	var buf bytes.Buffer
	return New(rec.callbacks(), logging.NewWriterLogger("handover", &buf)), rec, &buf
}

func TestTakeControl_InactiveIsNoop(t *testing.T) {
	for _, status := range []string{"", "paused", "complete", "awaiting_input", "Active"} {
		t.Run(status, func(t *testing.T) {
			c, rec, _ := newCoordinator(t)

			assert.False(t, c.TakeControl(status))
			assert.Equal(t, AgentControlled, c.State())
			assert.Empty(t, rec.calls)
		})
	}
}

func TestTakeControl_ActiveApplies(t *testing.T) {
	c, rec, buf := newCoordinator(t)

	require.True(t, c.TakeControl(StatusActive))
	assert.Equal(t, HumanControlled, c.State())
	assert.Equal(t, []string{"pause", "take-control"}, rec.calls)
	assert.True(t, c.ShowSecurityNotice())
	assert.True(t, c.ShowControlIndicator())
	assert.Contains(t, buf.String(), "Agents cannot see what you do")

	// second activation is ignored
	assert.False(t, c.TakeControl(StatusActive))
	assert.Equal(t, []string{"pause", "take-control"}, rec.calls)
}

func TestTakeControl_ConcurrentRequestsFireOnce(t *testing.T) {
	c, rec, _ := newCoordinator(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.TakeControl(StatusActive)
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"pause", "take-control"}, rec.calls)
}

func TestHandbackFlow(t *testing.T) {
	c, rec, _ := newCoordinator(t)
	require.True(t, c.TakeControl(StatusActive))

	require.NoError(t, c.RequestHandback())
	assert.Equal(t, FeedbackPending, c.State(), "handback never skips feedback")
	assert.True(t, c.ShowFeedbackForm())
	assert.True(t, c.IsHandoverActive())

	require.NoError(t, c.SubmitFeedback("note"))
	assert.Equal(t, AgentControlled, c.State())
	assert.Equal(t, []string{"note"}, rec.feedback)
	assert.False(t, c.IsHandoverActive())

	// a second submit is invalid and forwards nothing
	assert.ErrorIs(t, c.SubmitFeedback("note"), ErrInvalidTransition)
	assert.Len(t, rec.feedback, 1)
}

func TestCancelHandback(t *testing.T) {
	c, rec, _ := newCoordinator(t)
	c.TakeControl(StatusActive)
	require.NoError(t, c.RequestHandback())

	require.NoError(t, c.CancelHandback())
	assert.Equal(t, HumanControlled, c.State())
	assert.Empty(t, rec.feedback)
}

func TestSubmitFeedback_BlankNote(t *testing.T) {
	c, rec, _ := newCoordinator(t)
	c.TakeControl(StatusActive)
	require.NoError(t, c.RequestHandback())

	assert.ErrorIs(t, c.SubmitFeedback("   \n"), ErrEmptyFeedback)
	assert.Equal(t, FeedbackPending, c.State())
	assert.Empty(t, rec.feedback)
}

func TestInvalidTransitions(t *testing.T) {
	c, _, _ := newCoordinator(t)

	assert.ErrorIs(t, c.RequestHandback(), ErrInvalidTransition)
	assert.ErrorIs(t, c.CancelHandback(), ErrInvalidTransition)
	assert.ErrorIs(t, c.SubmitFeedback("x"), ErrInvalidTransition)
	assert.ErrorIs(t, c.SubmitFeedback(""), ErrInvalidTransition)

	err := c.RequestHandback()
	assert.True(t, strings.Contains(err.Error(), "agent-controlled"))
}

func TestNoAutoRevertOnStatusChange(t *testing.T) {
	c, _, _ := newCoordinator(t)
	c.TakeControl(StatusActive)

	// run status moves away from active; control stays with the human
	assert.False(t, c.TakeControl("paused"))
	assert.Equal(t, HumanControlled, c.State())
	assert.True(t, c.IsHandoverActive())
}

func TestAffordance(t *testing.T) {
	c, _, _ := newCoordinator(t)

	assert.True(t, c.ShowTakeControlAffordance(StatusActive, true))
	assert.False(t, c.ShowTakeControlAffordance(StatusActive, false))
	assert.False(t, c.ShowTakeControlAffordance("complete", true))

	c.TakeControl(StatusActive)
	assert.False(t, c.ShowTakeControlAffordance(StatusActive, true))
}

func TestObserversAndReset(t *testing.T) {
	c, rec, _ := newCoordinator(t)
	var seen []Transition
	c.OnTransition(func(tr Transition) { seen = append(seen, tr) })

	c.TakeControl(StatusActive)
	c.RequestHandback()
	require.Len(t, seen, 2)
	assert.Equal(t, AgentControlled, seen[0].From)
	assert.Equal(t, FeedbackPending, seen[1].To)

	c.Reset()
	assert.Equal(t, AgentControlled, c.State())
	assert.Len(t, seen, 2, "reset is silent")
	assert.Len(t, rec.feedback, 0)
}
