package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDUI is the identifier for the UI settings section
	SectionIDUI = "ui"

	defaultShowDimensions = true
	defaultToastDuration  = 5 * time.Second
)

// UISection manages terminal presentation settings.
type UISection struct {
	ShowDimensions bool          `json:"show_dimensions"`
	ToastDuration  time.Duration `json:"toast_duration"`
	mu             sync.RWMutex
}

// NewUISection creates a new UI section with default settings.
func NewUISection() *UISection {
	return &UISection{
		ShowDimensions: defaultShowDimensions,
		ToastDuration:  defaultToastDuration,
	}
}

// ID returns the section identifier.
func (s *UISection) ID() string { return SectionIDUI }

// Title returns the section title.
func (s *UISection) Title() string { return "UI Settings" }

// Description returns the section description.
func (s *UISection) Description() string {
	return "Surface dimension indicator and notification timing."
}

// Data returns the current configuration data.
func (s *UISection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"show_dimensions": s.ShowDimensions,
		"toast_duration":  s.ToastDuration.String(),
	}
}

// SetData updates the configuration from the provided data.
func (s *UISection) SetData(data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "show_dimensions":
			if err := assign(&s.ShowDimensions, key, value); err != nil {
				return err
			}
		case "toast_duration":
			if err := assignDuration(&s.ToastDuration, key, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate keeps toast duration between 1s and 30s.
func (s *UISection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ToastDuration < time.Second || s.ToastDuration > 30*time.Second {
		return fmt.Errorf("toast_duration must be between 1s and 30s, got %v", s.ToastDuration)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *UISection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ShowDimensions = defaultShowDimensions
	s.ToastDuration = defaultToastDuration
}

// DimensionsVisible reports whether the W × H indicator is shown.
func (s *UISection) DimensionsVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ShowDimensions
}

// ToggleDimensions flips the indicator and returns the new value.
func (s *UISection) ToggleDimensions() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ShowDimensions = !s.ShowDimensions
	return s.ShowDimensions
}

// SetShowDimensions sets whether the indicator is shown.
func (s *UISection) SetShowDimensions(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ShowDimensions = show
}

// Toast returns how long notifications stay visible.
func (s *UISection) Toast() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ToastDuration
}
