package session

import (
	"path/filepath"
	"testing"

	"github.com/entrhq/lookout/pkg/types"
	"github.com/entrhq/lookout/pkg/viewer"
	"github.com/entrhq/lookout/pkg/viewer/gallery"
	"github.com/entrhq/lookout/pkg/viewer/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
screenshots:
  - image: https://example.com/1.png
    title: Login
  - image: https://example.com/2.png
current_index: 1
endpoint:
  host: vnc.internal
  port: 6080
run_status: active
active_mode: screenshots
plan_ref: plan-42
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	props, err := f.Props()
	require.NoError(t, err)
	assert.Equal(t, []gallery.Screenshot{
		{ImageRef: "https://example.com/1.png", Title: "Login"},
		{ImageRef: "https://example.com/2.png"},
	}, props.Screenshots)
	assert.Equal(t, 1, props.CurrentIndex)
	assert.Equal(t, &remote.Endpoint{Host: "vnc.internal", Port: 6080}, props.Endpoint)
	assert.Equal(t, "active", props.RunStatus)
	require.NotNil(t, props.ActiveMode)
	assert.Equal(t, viewer.ModeScreenshots, *props.ActiveMode)
	assert.Equal(t, "plan-42", props.PlanRef)
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse([]byte("  \n"))
	require.NoError(t, err)
	props, err := f.Props()
	require.NoError(t, err)
	assert.Nil(t, props.Endpoint)
	assert.Nil(t, props.ActiveMode)
	assert.Empty(t, props.Screenshots)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("run_staus: active\n"))
	assert.Error(t, err)
}

func TestPropsValidation(t *testing.T) {
	tests := []struct {
		name  string
		file  File
		field string
	}{
		{"negative index", File{CurrentIndex: -1}, "current_index"},
		{"missing image", File{Screenshots: []gallery.Screenshot{{Title: "x"}}}, "screenshots"},
		{"bad port", File{Endpoint: &remote.Endpoint{Port: 0}}, "endpoint.port"},
		{"unknown mode", File{ActiveMode: "gallery"}, "active_mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.file.Props()
			require.Error(t, err)
			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSaveLoadProps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, Save(path, File{DocumentRef: " https://example.com/a.pdf ", RunStatus: "paused"}))

	props, err := LoadProps(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.pdf", props.DocumentRef)
	assert.Equal(t, "paused", props.RunStatus)
}

func TestLoadMissing(t *testing.T) {
	_, err := LoadProps(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
