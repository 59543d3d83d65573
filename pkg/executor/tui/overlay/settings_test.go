package overlay

import (
	"testing"

	"github.com/entrhq/lookout/pkg/executor/tui/types"
	"github.com/entrhq/lookout/pkg/viewer/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSettings() types.Settings {
	return types.Settings{Quality: 7, Scaling: remote.ScalingLocal, ShowDimensions: true}
}

func TestNewSettingsOverlay(t *testing.T) {
	tests := []struct {
		name  string
		width int
	}{
		{"standard dimensions", 100},
		{"small dimensions", 40},
		{"large dimensions", 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettingsOverlay(defaultSettings(), tt.width)
			require.NotNil(t, s)
			assert.True(t, s.Focused())
			assert.LessOrEqual(t, s.Width(), 72)
			assert.False(t, s.HasChanges())
			assert.Contains(t, s.View(), "Viewer Settings")
		})
	}
}

func TestSettingsOverlay_QualityClamps(t *testing.T) {
	s := NewSettingsOverlay(defaultSettings(), 100)
	f := &fakeModel{}

	for range 5 {
		s.Update(key("right"), f, f)
	}
	assert.Equal(t, 9, s.Values().Quality)

	for range 12 {
		s.Update(key("left"), f, f)
	}
	assert.Equal(t, 0, s.Values().Quality)
}

func TestSettingsOverlay_ScalingWraps(t *testing.T) {
	s := NewSettingsOverlay(defaultSettings(), 100)
	f := &fakeModel{}

	s.Update(key("down"), f, f)
	s.Update(key("left"), f, f)
	assert.Equal(t, remote.ScalingNone, s.Values().Scaling)
	s.Update(key("right"), f, f)
	s.Update(key("right"), f, f)
	assert.Equal(t, remote.ScalingRemote, s.Values().Scaling)
}

func TestSettingsOverlay_Toggles(t *testing.T) {
	s := NewSettingsOverlay(defaultSettings(), 100)
	f := &fakeModel{}

	s.Update(key("up"), f, f) // wraps to the last row
	s.Update(key(" "), f, f)
	assert.False(t, s.Values().ShowDimensions)

	s.Update(key("up"), f, f)
	s.Update(key(" "), f, f)
	assert.True(t, s.Values().ViewOnly)
	assert.Contains(t, s.View(), "Viewer Settings *")
}

func TestSettingsOverlay_SaveApplies(t *testing.T) {
	s := NewSettingsOverlay(defaultSettings(), 100)
	f := &fakeModel{}

	s.Update(key("left"), f, f)
	next, _ := s.Update(key("enter"), f, f)
	assert.Nil(t, next)
	require.Len(t, f.applied, 1)
	assert.Equal(t, 6, f.applied[0].Quality)
}

func TestSettingsOverlay_SaveWithoutChanges(t *testing.T) {
	s := NewSettingsOverlay(defaultSettings(), 100)
	f := &fakeModel{}

	next, _ := s.Update(key("enter"), f, f)
	assert.Nil(t, next)
	assert.Empty(t, f.applied)
}

func TestSettingsOverlay_EscDiscards(t *testing.T) {
	s := NewSettingsOverlay(defaultSettings(), 100)
	f := &fakeModel{}

	s.Update(key("right"), f, f)
	next, _ := s.Update(key("esc"), f, f)
	assert.Nil(t, next)
	assert.Empty(t, f.applied)
}
