package config

import (
	"sync"
)

var (
	// globalManager is the process-wide configuration manager
	globalManager *Manager
	globalMu      sync.Mutex
)

// New builds a manager over a file store at path with the default sections
// registered and loaded.
func New(path string) (*Manager, error) {
	store, err := NewFileStore(path)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	if err := manager.RegisterSection(NewViewerSection()); err != nil {
		return nil, err
	}
	if err := manager.RegisterSection(NewUISection()); err != nil {
		return nil, err
	}
	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Initialize creates the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	manager, err := New(configPath)
	if err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// Viewer returns the viewer section of m.
func (m *Manager) Viewer() *ViewerSection {
	section, ok := m.GetSection(SectionIDViewer)
	if !ok {
		return nil
	}
	viewer, _ := section.(*ViewerSection)
	return viewer
}

// UI returns the UI section of m.
func (m *Manager) UI() *UISection {
	section, ok := m.GetSection(SectionIDUI)
	if !ok {
		return nil
	}
	ui, _ := section.(*UISection)
	return ui
}

// GetViewer returns the viewer section from global config.
// Returns nil if config is not initialized.
func GetViewer() *ViewerSection {
	if !IsInitialized() {
		return nil
	}
	return Global().Viewer()
}

// GetUI returns the UI section from global config.
// Returns nil if config is not initialized.
func GetUI() *UISection {
	if !IsInitialized() {
		return nil
	}
	return Global().UI()
}
