// Package session reads the caller-maintained session file and writes the
// viewer's notifications back to the caller.
package session

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/entrhq/lookout/pkg/types"
	"github.com/entrhq/lookout/pkg/viewer"
	"github.com/entrhq/lookout/pkg/viewer/gallery"
	"github.com/entrhq/lookout/pkg/viewer/remote"
	"gopkg.in/yaml.v3"
)

// File is the YAML document a caller writes to describe the session:
//
//	screenshots:
//	  - image: https://host/shot-1.png
//	    title: Login page
//	current_index: 0
//	endpoint: {host: localhost, port: 6080}
//	run_status: active
//	document_ref: https://host/report.docx
//	active_mode: screenshots
//	plan_ref: plan-42
type File struct {
	Screenshots  []gallery.Screenshot `yaml:"screenshots"`
	CurrentIndex int                  `yaml:"current_index"`
	Endpoint     *remote.Endpoint     `yaml:"endpoint,omitempty"`
	RunStatus    string               `yaml:"run_status"`
	DocumentRef  string               `yaml:"document_ref"`
	ActiveMode   string               `yaml:"active_mode,omitempty"`
	PlanRef      string               `yaml:"plan_ref,omitempty"`
}

// Parse decodes a session file. Unknown keys are rejected so typos surface.
func Parse(data []byte) (File, error) {
	var f File
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("failed to decode session file: %w", err)
	}
	return f, nil
}

// Load reads and decodes the session file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read session file: %w", err)
	}
	return Parse(data)
}

// Props converts the file into viewer props.
func (f File) Props() (viewer.Props, error) {
	props := viewer.Props{
		Screenshots:  f.Screenshots,
		CurrentIndex: f.CurrentIndex,
		RunStatus:    f.RunStatus,
		DocumentRef:  strings.TrimSpace(f.DocumentRef),
		PlanRef:      f.PlanRef,
	}

	if f.CurrentIndex < 0 {
		return viewer.Props{}, types.NewValidationError("current_index", "must not be negative, got %d", f.CurrentIndex)
	}
	for i, s := range f.Screenshots {
		if s.ImageRef == "" {
			return viewer.Props{}, types.NewValidationError("screenshots", "entry %d has no image", i)
		}
	}
	if f.Endpoint != nil {
		if f.Endpoint.Port <= 0 || f.Endpoint.Port > 65535 {
			return viewer.Props{}, types.NewValidationError("endpoint.port", "must be 1-65535, got %d", f.Endpoint.Port)
		}
		ep := *f.Endpoint
		props.Endpoint = &ep
	}
	if f.ActiveMode != "" {
		mode, err := viewer.ParseMode(f.ActiveMode)
		if err != nil {
			return viewer.Props{}, types.NewValidationError("active_mode", "%v", err)
		}
		props.ActiveMode = &mode
	}
	return props, nil
}

// LoadProps reads path and converts it in one step.
func LoadProps(path string) (viewer.Props, error) {
	f, err := Load(path)
	if err != nil {
		return viewer.Props{}, err
	}
	return f.Props()
}

// Save writes f to path.
func Save(path string, f File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
