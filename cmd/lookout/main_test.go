package main

import (
	"path/filepath"
	"testing"

	appconfig "github.com/entrhq/lookout/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"ok", Config{SessionPath: "s.yaml"}, false},
		{"no session", Config{}, true},
		{"quality out of range", Config{SessionPath: "s.yaml", Quality: 12, set: map[string]bool{"quality": true}}, true},
		{"bad scaling", Config{SessionPath: "s.yaml", Scaling: "fit", set: map[string]bool{"scaling": true}}, true},
		{"bad strategy", Config{SessionPath: "s.yaml", Strategy: "vnc"}, true},
		{"streaming", Config{SessionPath: "s.yaml", Strategy: "streaming-viewer"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyOnlyExplicitFlags(t *testing.T) {
	stored := appconfig.NewViewerSection().Snapshot()
	c := Config{Quality: 0, Scaling: "remote", set: map[string]bool{"scaling": true}}

	got := c.apply(stored)
	assert.Equal(t, stored.Quality, got.Quality)
	assert.Equal(t, "remote", got.Scaling)

	c.set["quality"] = true
	assert.Equal(t, 0, c.apply(stored).Quality)
}

func TestResponsesPath(t *testing.T) {
	c := Config{SessionPath: filepath.Join("runs", "a", "session.yaml")}
	assert.Equal(t, filepath.Join("runs", "a", "responses.jsonl"), c.responsesPath())

	c.ResponsesPath = "out.jsonl"
	assert.Equal(t, "out.jsonl", c.responsesPath())
}
