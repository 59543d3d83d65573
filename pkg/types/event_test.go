package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexChangeEvent(t *testing.T) {
	e := NewIndexChangeEvent(0)

	require.NotNil(t, e.Index)
	assert.Equal(t, 0, *e.Index)
	assert.Equal(t, EventTypeIndexChange, e.Type)
	assert.NotEmpty(t, e.ID)

	// index 0 must survive serialization
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"index":0`)
}

func TestInputResponses(t *testing.T) {
	feedback := NewFeedbackResponse("I entered my zip code")
	assert.False(t, feedback.IsDecision())
	assert.Equal(t, InputSourceHandover, feedback.Source)

	deny := NewDecisionResponse("", false)
	require.True(t, deny.IsDecision())
	assert.False(t, *deny.Accepted)

	e := NewInputResponseEvent(feedback)
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"text":"I entered my zip code"`)
	assert.NotContains(t, string(raw), "accepted")
}
