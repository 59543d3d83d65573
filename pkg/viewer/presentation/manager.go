// Package presentation promotes a viewer region into a fullscreen overlay
// above the host surface and back, without touching the region's data.
package presentation

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// State is whether a region is shown inline or promoted.
type State int

const (
	Inline State = iota
	Overlay
)

func (s State) String() string {
	if s == Overlay {
		return "overlay"
	}
	return "inline"
}

// Target identifies the region raised into the overlay.
type Target string

const (
	TargetNone          Target = ""
	TargetRemoteSurface Target = "remote-surface"
	TargetDocument      Target = "document"
	// TargetControl is the fullscreen control mode over the whole viewer.
	TargetControl Target = "control"
)

// ErrCloseSuppressed is returned by Demote while the guard holds the overlay open.
var ErrCloseSuppressed = errors.New("overlay cannot be closed during control handover")

// Guard reports whether closing must be refused.
type Guard func() bool

// Manager tracks the presentation state. It stores only the target and
// state; the promoted region keeps its own connection and position.
type Manager struct {
	mu           sync.Mutex
	state        State
	target       Target
	activationID string
	forced       bool
	guard        Guard
}

// NewManager creates a manager in Inline. A nil guard never suppresses close.
func NewManager(guard Guard) *Manager {
	return &Manager{guard: guard}
}

// Promote raises target to the overlay and returns the activation ID.
// Promoting the already-promoted target keeps the current activation, and a
// forced overlay is never retargeted.
func (m *Manager) Promote(target Target) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Overlay && (m.target == target || m.forced) {
		return m.activationID
	}
	m.state = Overlay
	m.target = target
	m.activationID = uuid.New().String()
	m.forced = false
	return m.activationID
}

// ForceOpen promotes target and marks the overlay as held open. It is used
// when a control handover begins; the guard decides when it may close.
func (m *Manager) ForceOpen(target Target) string {
	id := m.Promote(target)
	m.mu.Lock()
	m.forced = true
	m.mu.Unlock()
	return id
}

// Demote returns to Inline unless the guard refuses.
func (m *Manager) Demote() error {
	if !m.CloseAllowed() {
		return ErrCloseSuppressed
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Inline
	m.target = TargetNone
	m.activationID = ""
	m.forced = false
	return nil
}

// CloseAllowed reports whether the close control should be offered.
func (m *Manager) CloseAllowed() bool {
	return m.guard == nil || !m.guard()
}

// State returns the current presentation state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Target returns the promoted target, or TargetNone when inline.
func (m *Manager) Target() Target {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.target
}

// ActivationID identifies the current promotion. Empty when inline.
func (m *Manager) ActivationID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activationID
}

// Forced reports whether the overlay was opened by ForceOpen.
func (m *Manager) Forced() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.forced
}

// IsPromoted reports whether target is the one currently in the overlay.
func (m *Manager) IsPromoted(target Target) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Overlay && m.target == target
}

// Reset returns to Inline regardless of the guard. Used on remount.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Inline
	m.target = TargetNone
	m.activationID = ""
	m.forced = false
}
