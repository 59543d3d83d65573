package overlay

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/lookout/pkg/executor/tui/types"
)

// Key names shared by the overlays.
const (
	keyEsc      = "esc"
	keyCtrlC    = "ctrl+c"
	keyCtrlS    = "ctrl+s"
	keyEnter    = "enter"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyLeft     = "left"
	keyRight    = "right"
	keyHome     = "home"
	keyEnd      = "end"
)

// BaseOverlay provides the viewport, dimensions, focus and close handling
// shared by the modal overlays.
type BaseOverlay struct {
	viewport viewport.Model
	width    int
	height   int
	focused  bool

	onClose      func(actions types.ActionHandler) tea.Cmd
	onCustomKey  func(msg tea.KeyMsg, actions types.ActionHandler) (bool, tea.Cmd) // Returns (handled, cmd)
	closable     func() bool
	renderHeader func() string
	renderFooter func() string
}

// BaseOverlayConfig configures a base overlay
type BaseOverlayConfig struct {
	Width          int
	Height         int
	ViewportWidth  int
	ViewportHeight int
	Content        string
	OnClose        func(actions types.ActionHandler) tea.Cmd
	OnCustomKey    func(msg tea.KeyMsg, actions types.ActionHandler) (bool, tea.Cmd)
	// Closable is consulted before a close key is honoured; nil always allows it
	Closable     func() bool
	RenderHeader func() string
	RenderFooter func() string
}

// NewBaseOverlay creates a new base overlay with the given configuration
func NewBaseOverlay(config BaseOverlayConfig) *BaseOverlay {
	vp := viewport.New(config.ViewportWidth, config.ViewportHeight)
	vp.Style = lipgloss.NewStyle()
	if config.Content != "" {
		vp.SetContent(config.Content)
	}

	return &BaseOverlay{
		viewport:     vp,
		width:        config.Width,
		height:       config.Height,
		focused:      true,
		onClose:      config.OnClose,
		onCustomKey:  config.OnCustomKey,
		closable:     config.Closable,
		renderHeader: config.RenderHeader,
		renderFooter: config.RenderFooter,
	}
}

// Update handles resize, scrolling and close keys. closed reports that the
// overlay asked to be closed; handled reports that msg was consumed.
func (b *BaseOverlay) Update(msg tea.Msg, actions types.ActionHandler) (handled, closed bool, cmd tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKeyMsg(msg, actions)
	case tea.MouseMsg:
		b.viewport, cmd = b.viewport.Update(msg)
		return true, false, cmd
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return true, false, nil
	}
	return false, false, nil
}

func (b *BaseOverlay) handleKeyMsg(msg tea.KeyMsg, actions types.ActionHandler) (bool, bool, tea.Cmd) {
	if msg.String() == keyEsc || msg.String() == keyCtrlC {
		if b.closable != nil && !b.closable() {
			return true, false, nil
		}
		return true, true, b.close(actions)
	}

	// Give custom handler first priority
	if b.onCustomKey != nil {
		if handled, cmd := b.onCustomKey(msg, actions); handled {
			return true, false, cmd
		}
	}

	switch msg.String() {
	case keyHome:
		b.viewport.GotoTop()
		return true, false, nil
	case keyEnd:
		b.viewport.GotoBottom()
		return true, false, nil
	}

	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		b.viewport, cmd = b.viewport.Update(msg)
		return true, false, cmd
	}
	return false, false, nil
}

func (b *BaseOverlay) close(actions types.ActionHandler) tea.Cmd {
	if b.onClose != nil {
		return b.onClose(actions)
	}
	return nil
}

// View renders the header, viewport and footer inside the modal container.
func (b *BaseOverlay) View(contentWidth int) string {
	var sections []string
	if b.renderHeader != nil {
		sections = append(sections, b.renderHeader())
	}
	sections = append(sections, b.viewport.View())
	if b.renderFooter != nil {
		sections = append(sections, b.renderFooter())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return types.CreateOverlayContainerStyle(contentWidth).Render(content)
}

// SetContent updates the viewport content
func (b *BaseOverlay) SetContent(content string) {
	b.viewport.SetContent(content)
}

// ScrollTo puts line at the top of the viewport.
func (b *BaseOverlay) ScrollTo(line int) {
	b.viewport.SetYOffset(line)
}

// Viewport returns the underlying viewport for advanced manipulation
func (b *BaseOverlay) Viewport() *viewport.Model {
	return &b.viewport
}

// Focused returns whether this overlay should handle input
func (b *BaseOverlay) Focused() bool {
	return b.focused
}

// SetFocused sets the focus state
func (b *BaseOverlay) SetFocused(focused bool) {
	b.focused = focused
}

// Width returns the overlay width
func (b *BaseOverlay) Width() int {
	return b.width
}

// Height returns the overlay height
func (b *BaseOverlay) Height() int {
	return b.height
}

// SetDimensions updates the overlay dimensions
func (b *BaseOverlay) SetDimensions(width, height int) {
	b.width = width
	b.height = height
}

// modalSize sizes a modal to a share of the terminal, within sane bounds.
func modalSize(width, height int) (w, h int) {
	w = max(min(int(float64(width)*0.9), 120), 40)
	h = max(height-6, 10)
	return w, h
}
