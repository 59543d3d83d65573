package tui

import (
	"errors"
	"io"
	"log"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/lookout/pkg/executor/tui/overlay"
	tuitypes "github.com/entrhq/lookout/pkg/executor/tui/types"
	"github.com/entrhq/lookout/pkg/viewer"
	"github.com/entrhq/lookout/pkg/viewer/presentation"
	"github.com/entrhq/lookout/pkg/viewer/remote"
)

var debugLog *log.Logger

// initDebugLog traces every message to lookout-tui-debug.log when
// LOOKOUT_TUI_DEBUG is set, and discards otherwise.
func initDebugLog() {
	if debugLog != nil {
		return
	}
	if os.Getenv("LOOKOUT_TUI_DEBUG") == "" {
		debugLog = log.New(io.Discard, "", 0)
		return
	}
	f, err := os.OpenFile("lookout-tui-debug.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		log.Printf("Warning: error opening debug log file: %v", err)
		debugLog = log.New(os.Stderr, "[DEBUG] ", log.LstdFlags|log.Lshortfile)
		return
	}
	debugLog = log.New(f, "", log.LstdFlags|log.Lshortfile)
	debugLog.Printf("Debug logging initialized")
}

// cell approximates one terminal cell in pixels for the surface frame size.
var cell = remote.Size{Width: 8, Height: 16}

// Init mounts the viewer and starts whatever it needs loaded.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runWork(m.viewer.Mount()))
}

// Update handles all state updates for the TUI model.
//
// Uses pointer receiver to ensure overlay mutations via ActionHandler persist.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.shouldQuit {
		return m, tea.Quit
	}

	var spinnerCmd tea.Cmd
	m.spinner, spinnerCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		debugLog.Printf("Received tea.WindowSizeMsg: width=%d, height=%d", msg.Width, msg.Height)
		return m.handleWindowResize(msg)

	case tuitypes.DocumentResultMsg:
		debugLog.Printf("Received DocumentResultMsg: ref=%s gen=%d err=%v", msg.Result.Ref, msg.Result.Gen, msg.Result.Err)
		if m.viewer.CompleteDocument(msg.Result) {
			m.syncDocument()
		}
		return m, spinnerCmd

	case tuitypes.SurfaceMsg:
		debugLog.Printf("Received SurfaceMsg: %s", msg.Surface.State)
		if msg.Surface.State == remote.SurfaceBroken {
			m.ShowToast("Live view unavailable", msg.Surface.Placeholder(), "⚠️", true)
		}
		return m, spinnerCmd

	case tuitypes.SessionMsg:
		debugLog.Printf("Received SessionMsg: status=%s doc=%s", msg.Props.RunStatus, msg.Props.DocumentRef)
		return m.handleSession(msg.Props, spinnerCmd)

	case tuitypes.SessionErrMsg:
		m.sessionErr = msg.Err
		m.ShowToast("Session file not loaded", msg.Err.Error(), "⚠️", true)
		return m, spinnerCmd

	case tuitypes.ConfigSavedMsg:
		if msg.Err != nil {
			m.logger.Errorf("%v", msg.Err)
			m.ShowToast("Settings not saved", msg.Err.Error(), "💾", true)
		} else {
			debugLog.Printf("Settings saved")
		}
		return m, spinnerCmd

	case tuitypes.ToastMsg:
		m.ShowToast(msg.Message, msg.Details, msg.Icon, msg.IsError)
		return m, spinnerCmd

	case tea.KeyMsg:
		debugLog.Printf("Received tea.KeyMsg: %s", msg.String())
		return m.handleKeyPress(msg, spinnerCmd)

	case tea.MouseMsg:
		if m.overlay.isActive() {
			return m, tea.Batch(m.routeToOverlay(msg), spinnerCmd)
		}
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, tea.Batch(vpCmd, spinnerCmd)
	}

	if m.overlay.isActive() {
		return m, tea.Batch(m.routeToOverlay(msg), spinnerCmd)
	}
	return m, spinnerCmd
}

// routeToOverlay hands msg to the active overlay. An overlay that returns
// nil is closed, unless it already rearranged the overlays itself through
// the action handler.
func (m *model) routeToOverlay(msg tea.Msg) tea.Cmd {
	current := m.overlay.overlay
	updated, cmd := current.Update(msg, m, m)
	if m.overlay.overlay != current {
		return cmd
	}
	if updated == nil {
		m.ClearOverlay()
	} else {
		m.overlay.overlay = updated
	}
	return cmd
}

// runWork turns viewer work into commands run off the event loop.
func (m *model) runWork(w viewer.Work) tea.Cmd {
	var cmds []tea.Cmd
	if job := w.Document; job != nil {
		ctx := m.ctx
		cmds = append(cmds, func() tea.Msg {
			return tuitypes.DocumentResultMsg{Result: job.Run(ctx)}
		})
	}
	if w.Connect {
		v, ctx := m.viewer, m.ctx
		cmds = append(cmds, func() tea.Msg {
			return tuitypes.SurfaceMsg{Surface: v.Connect(ctx)}
		})
	}
	return tea.Batch(cmds...)
}

func (m *model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.viewport.Width = max(m.width-4, 10)
	m.viewport.Height = m.bodyHeight()
	m.viewer.SetFrameSize(remote.Size{Width: m.viewport.Width * cell.Width, Height: m.viewport.Height * cell.Height})
	m.ready = true
	m.syncDocument()

	if m.overlay.isActive() {
		m.overlay.overlay.SetDimensions(msg.Width, msg.Height)
		return m, m.routeToOverlay(msg)
	}
	return m, nil
}

// handleSession applies a caller refresh and closes any modal whose mode
// went away with it.
func (m *model) handleSession(props viewer.Props, spinnerCmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.sessionErr = nil
	work := m.viewer.Update(props)
	m.reconcileOverlay()
	m.syncDocument()
	return m, tea.Batch(m.runWork(work), spinnerCmd)
}

func (m *model) reconcileOverlay() {
	state, target := m.viewer.Presentation()
	var want presentation.Target
	switch m.overlay.mode {
	case tuitypes.OverlayModeDocument:
		want = presentation.TargetDocument
	case tuitypes.OverlayModeRemoteSurface:
		want = presentation.TargetRemoteSurface
	default:
		return
	}
	if state == presentation.Inline || target != want {
		m.overlay.deactivate()
	}
}

// syncDocument loads the rendered document into the inline viewport.
func (m *model) syncDocument() {
	doc := m.viewer.Preview().Document()
	if doc == m.shownDocument {
		return
	}
	m.shownDocument = doc
	if doc == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(strings.Join(doc.Lines, "\n"))
	m.viewport.GotoTop()
}

// handleKeyPress processes keyboard input
func (m *model) handleKeyPress(msg tea.KeyMsg, spinnerCmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.overlay.isActive() {
		return m, tea.Batch(m.routeToOverlay(msg), spinnerCmd)
	}

	key := msg.String()
	if m.viewer.HandleKey(key) {
		return m, spinnerCmd
	}

	var cmd tea.Cmd
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.toggleTab()
	case "1":
		m.selectTab(viewer.ModeScreenshots)
	case "2":
		m.selectTab(viewer.ModeLive)
	case "enter", "m":
		m.maximize()
	case "t":
		m.takeControl()
	case "a":
		m.openApproval()
	case "y":
		m.copySurfaceURL()
	case "r":
		cmd = m.RetryDocument()
	case "R":
		m.overlay.clear()
		m.shownDocument = nil
		cmd = m.runWork(m.viewer.Remount())
	case "D":
		s := m.Settings()
		s.ShowDimensions = !s.ShowDimensions
		cmd = m.ApplySettings(s)
	case "s":
		m.overlay.activateAndClearStack(tuitypes.OverlayModeSettings, overlay.NewSettingsOverlay(m.Settings(), m.width))
	case "?":
		m.overlay.activateAndClearStack(tuitypes.OverlayModeHelp, overlay.NewHelpOverlay("Lookout keys", overlay.DefaultBindings))
	case "up", "down", "pgup", "pgdown":
		if m.viewer.Mode() == viewer.ModeDocument {
			m.viewport, cmd = m.viewport.Update(msg)
		}
	}

	// the live tab stands in for pointer hover over the surface
	m.viewer.SetHovered(m.viewer.Mode() == viewer.ModeLive)
	return m, tea.Batch(cmd, spinnerCmd)
}

func (m *model) toggleTab() {
	next := viewer.ModeScreenshots
	if m.viewer.Mode() == viewer.ModeScreenshots {
		next = viewer.ModeLive
	}
	m.selectTab(next)
}

func (m *model) selectTab(mode viewer.Mode) {
	if err := m.viewer.SelectTab(mode); err != nil && !errors.Is(err, viewer.ErrTabsHidden) {
		m.ShowToast("Cannot switch tab", err.Error(), "⚠️", true)
	}
}

func (m *model) maximize() {
	if m.viewer.Handover().IsHandoverActive() {
		return
	}
	switch m.viewer.Maximize() {
	case presentation.TargetDocument:
		m.overlay.activateAndClearStack(tuitypes.OverlayModeDocument, overlay.NewDocumentOverlay(m, m.width, m.height))
	default:
		m.overlay.activateAndClearStack(tuitypes.OverlayModeRemoteSurface, overlay.NewSurfaceOverlay(m, m.width, m.height))
	}
}

func (m *model) takeControl() {
	if m.viewer.Mode() != viewer.ModeLive {
		return
	}
	m.viewer.SetHovered(true)
	if !m.viewer.ShowTakeControlAffordance() {
		m.ShowToast("Take control unavailable", "Control can be taken while the agent is running", "⚠️", false)
		return
	}
	if m.viewer.TakeControl() {
		m.overlay.activateAndClearStack(tuitypes.OverlayModeControl, overlay.NewControlOverlay(m, m.width, m.height))
	}
}

func (m *model) openApproval() {
	if !m.viewer.AwaitingInput() {
		m.ShowToast("Nothing to approve", "The run is not waiting for input", "ℹ️", false)
		return
	}
	m.overlay.activateAndClearStack(tuitypes.OverlayModeApproval, overlay.NewApprovalOverlay(m.PlanRef(), m.width, m.height))
}

func (m *model) copySurfaceURL() {
	url := m.SurfaceURL()
	if url == "" {
		m.ShowToast("No live view yet", remote.WaitingText, "ℹ️", false)
		return
	}
	if err := clipboard.WriteAll(url); err != nil {
		m.ShowToast("Copy failed", err.Error(), "❌", true)
		return
	}
	m.ShowToast("Live view URL copied", url, "📋", false)
}

// bodyHeight is the space left for the mode body.
func (m *model) bodyHeight() int {
	// header, tabs, spacer, approval bar, status bar
	return max(m.height-7, 3)
}
