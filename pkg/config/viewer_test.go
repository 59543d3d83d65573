package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewerSection_Defaults(t *testing.T) {
	s := NewViewerSection()
	snap := s.Snapshot()

	assert.Equal(t, 7, snap.Quality)
	assert.Equal(t, "local", snap.Scaling)
	assert.Equal(t, "embedded-frame", snap.RenderStrategy)
	assert.False(t, snap.ViewOnly)
	assert.Equal(t, 30*time.Second, snap.FetchTimeout)
	assert.NoError(t, s.Validate())
}

func TestViewerSection_SetData(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]interface{}
		wantErr bool
		check   func(t *testing.T, s ViewerSettings)
	}{
		{
			name: "json numbers and duration strings",
			data: map[string]interface{}{"quality": 3.0, "fetch_timeout": "5s", "server_url": "vnc.internal"},
			check: func(t *testing.T, s ViewerSettings) {
				assert.Equal(t, 3, s.Quality)
				assert.Equal(t, 5*time.Second, s.FetchTimeout)
				assert.Equal(t, "vnc.internal", s.ServerURL)
			},
		},
		{
			name:    "wrong type for scaling",
			data:    map[string]interface{}{"scaling": 2.0},
			wantErr: true,
		},
		{
			name:    "bad duration",
			data:    map[string]interface{}{"connect_timeout": "soon"},
			wantErr: true,
		},
		{
			name: "unknown keys ignored",
			data: map[string]interface{}{"future_flag": true},
			check: func(t *testing.T, s ViewerSettings) {
				assert.Equal(t, 7, s.Quality)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewViewerSection()
			err := s.SetData(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, s.Snapshot())
		})
	}
}

func TestViewerSection_Validate(t *testing.T) {
	s := NewViewerSection()
	s.Quality = 10
	assert.Error(t, s.Validate())

	s.Reset()
	s.SetScaling("stretch")
	assert.Error(t, s.Validate())

	s.Reset()
	s.RenderStrategy = "canvas"
	assert.Error(t, s.Validate())
}

func TestViewerSection_SetQualityClamps(t *testing.T) {
	s := NewViewerSection()
	s.SetQuality(42)
	assert.Equal(t, 9, s.Snapshot().Quality)
	s.SetQuality(-1)
	assert.Equal(t, 0, s.Snapshot().Quality)
}

func TestNew_PersistsAcrossManagers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	m, err := New(path)
	require.NoError(t, err)
	m.Viewer().SetQuality(2)
	m.UI().ToggleDimensions()
	require.NoError(t, m.SaveAll())

	reloaded, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Viewer().Snapshot().Quality)
	assert.False(t, reloaded.UI().DimensionsVisible())
}

func TestUISection_Validate(t *testing.T) {
	s := NewUISection()
	assert.NoError(t, s.Validate())

	require.NoError(t, s.SetData(map[string]interface{}{"toast_duration": "100ms"}))
	assert.Error(t, s.Validate())
}
