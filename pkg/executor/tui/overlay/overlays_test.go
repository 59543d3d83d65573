package overlay

import (
	"testing"

	"github.com/entrhq/lookout/pkg/viewer/handover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackOverlay_Submit(t *testing.T) {
	fb := NewFeedbackOverlay(100, 40)
	f := &fakeModel{}

	fb.Update(key("reset the form"), f, f)
	assert.Equal(t, "reset the form", fb.Value())

	next, _ := fb.Update(key("enter"), f, f)
	assert.Nil(t, next)
	assert.Equal(t, []string{"reset the form"}, f.submitted)
	assert.Equal(t, []string{"Control returned"}, f.toasts)
}

func TestFeedbackOverlay_BlankStaysOpen(t *testing.T) {
	fb := NewFeedbackOverlay(100, 40)
	f := &fakeModel{feedbackErr: handover.ErrEmptyFeedback}

	next, _ := fb.Update(key("enter"), f, f)
	assert.Same(t, fb, next)
	assert.Contains(t, fb.View(), "Please describe what you did")
	assert.Empty(t, f.toasts)
}

func TestFeedbackOverlay_EscCancels(t *testing.T) {
	fb := NewFeedbackOverlay(100, 40)
	f := &fakeModel{}

	next, _ := fb.Update(key("esc"), f, f)
	assert.Nil(t, next)
	assert.Equal(t, 1, f.cancels)
	assert.Empty(t, f.submitted)
}

func TestFeedbackOverlay_ViewText(t *testing.T) {
	view := NewFeedbackOverlay(100, 40).View()
	assert.Contains(t, view, "Give control back to Agents")
	assert.Contains(t, view, "Agents can't see what you do when you take control.")
}

func TestApprovalOverlay(t *testing.T) {
	tests := []struct {
		name    string
		planRef string
		keys    []string
		want    string
	}{
		{"approve step", "", []string{"looks good", "enter"}, "step:accept:looks good"},
		{"deny via tab", "", []string{"tab", "enter"}, "step:reject:"},
		{"accept plan", "plan-7", []string{"ctrl+a"}, "plan-7:accept:"},
		{"regenerate plan", "plan-7", []string{"fewer steps", "ctrl+r"}, "plan-7:reject:fewer steps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewApprovalOverlay(tt.planRef, 100, 40)
			f := &fakeModel{}
			var closed bool
			for _, k := range tt.keys {
				next, _ := a.Update(key(k), f, f)
				closed = next == nil
			}
			assert.True(t, closed)
			assert.Equal(t, []string{tt.want}, f.responses)
		})
	}
}

func TestApprovalOverlay_PlanLabels(t *testing.T) {
	assert.Contains(t, NewApprovalOverlay("plan-7", 100, 40).View(), "Accept plan")
	assert.Contains(t, NewApprovalOverlay("", 100, 40).View(), "Approve")
}

func TestControlOverlay_StaysOpen(t *testing.T) {
	f := &fakeModel{state: handover.HumanControlled}
	c := NewControlOverlay(f, 200, 40)

	next, _ := c.Update(key("esc"), f, f)
	assert.Same(t, c, next)
	assert.Zero(t, f.cleared)
	assert.Len(t, f.toasts, 1)

	next, _ = c.Update(key("g"), f, f)
	assert.Same(t, c, next)
	assert.Equal(t, 1, f.handbacks)
	assert.Contains(t, c.View(), handover.CautionMessage)
}

func TestSurfaceOverlay_TakeControl(t *testing.T) {
	f := &fakeModel{}
	s := NewSurfaceOverlay(f, 100, 40)

	s.Update(key("t"), f, f)
	assert.Equal(t, 1, f.handovers)
}

func TestHelpOverlay_Closes(t *testing.T) {
	h := NewHelpOverlay("Keys", DefaultBindings)
	f := &fakeModel{}
	require.Contains(t, h.View(), "Take control")

	next, _ := h.Update(key("?"), f, f)
	assert.Nil(t, next)
}
