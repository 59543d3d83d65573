// Package tui provides the terminal front end of the session viewer.
//
// The TUI codebase is split into multiple files:
// - executor.go: program lifecycle and session update forwarding
// - model.go: core model structure and state
// - model_actions.go: the state and actions overlays work through
// - update.go: Bubble Tea Update function and message handling
// - view.go: Bubble Tea View function and rendering
// - overlay.go: overlay stack and placement
// - styles.go: main view styling
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/lookout/pkg/config"
	tuitypes "github.com/entrhq/lookout/pkg/executor/tui/types"
	"github.com/entrhq/lookout/pkg/logging"
	"github.com/entrhq/lookout/pkg/viewer"
)

// Executor runs one session viewer in the terminal.
type Executor struct {
	viewer  *viewer.Viewer
	config  *config.Manager
	logger  logging.Interface
	updates <-chan viewer.Props
	errs    <-chan error
	program *tea.Program
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithConfig persists settings edits through m.
func WithConfig(m *config.Manager) ExecutorOption {
	return func(e *Executor) { e.config = m }
}

// WithLogger sets the logger.
func WithLogger(l logging.Interface) ExecutorOption {
	return func(e *Executor) { e.logger = l }
}

// WithSessionUpdates feeds caller refreshes (and session read errors) into
// the viewer while it runs.
func WithSessionUpdates(updates <-chan viewer.Props, errs <-chan error) ExecutorOption {
	return func(e *Executor) {
		e.updates = updates
		e.errs = errs
	}
}

// NewExecutor creates a TUI executor for v. The viewer is mounted when the
// program starts.
func NewExecutor(v *viewer.Viewer, opts ...ExecutorOption) *Executor {
	e := &Executor{viewer: v}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Nop()
	}
	return e
}

// Run starts the TUI and blocks until the user exits or ctx is done.
func (e *Executor) Run(ctx context.Context) error {
	initDebugLog()
	debugLog.Printf("TUI Executor starting...")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := initialModel(ctx, e.viewer, e.config, e.logger)
	e.program = tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	go e.forward(ctx)

	_, err := e.program.Run()
	e.viewer.Unmount()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	return nil
}

// forward relays session updates to the program until ctx is done.
func (e *Executor) forward(ctx context.Context) {
	updates, errs := e.updates, e.errs
	for updates != nil || errs != nil {
		select {
		case <-ctx.Done():
			return
		case props, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			e.program.Send(tuitypes.SessionMsg{Props: props})
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			e.logger.Warnf("session update failed: %v", err)
			e.program.Send(tuitypes.SessionErrMsg{Err: err})
		}
	}
}
