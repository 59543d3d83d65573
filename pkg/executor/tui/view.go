package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/lookout/pkg/executor/tui/overlay"
	tuitypes "github.com/entrhq/lookout/pkg/executor/tui/types"
	"github.com/entrhq/lookout/pkg/viewer"
	"github.com/entrhq/lookout/pkg/viewer/document"
	"github.com/entrhq/lookout/pkg/viewer/gallery"
)

// View renders the entire TUI interface.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	baseView := lipgloss.JoinVertical(
		lipgloss.Left,
		m.buildHeader(),
		m.buildTabs(),
		m.buildBody(),
		m.buildApprovalBar(),
		m.buildBottomBar(),
	)
	return m.applyOverlays(baseView)
}

// buildHeader renders the title, run status and control indicator
func (m *model) buildHeader() string {
	parts := []string{headerStyle.Render("◉ Lookout")}
	if status := m.viewer.RunStatus(); status != "" {
		parts = append(parts, statusStyle.Render(status))
	}
	if m.viewer.Handover().ShowControlIndicator() {
		parts = append(parts, tuitypes.BadgeStyle.Render("You have control"))
	}
	return strings.Join(parts, "  ")
}

// buildTabs renders the tab strip; a document replaces it with its title
func (m *model) buildTabs() string {
	tabs := m.viewer.Tabs()
	if tabs == nil {
		return activeTabStyle.Render(viewer.ModeDocument.Label()) + "  " + tipsStyle.Render(m.viewer.DocumentTitle())
	}
	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t == m.viewer.Mode() {
			rendered = append(rendered, activeTabStyle.Render(t.Label()))
		} else {
			rendered = append(rendered, tabStyle.Render(t.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *model) buildBody() string {
	var content string
	switch m.viewer.Mode() {
	case viewer.ModeScreenshots:
		content = m.renderScreenshots()
	case viewer.ModeDocument:
		content = m.renderDocument()
	default:
		content = m.renderLive()
	}
	return bodyStyle.
		Width(max(m.width-2, 10)).
		Height(m.bodyHeight()).
		Render(content)
}

func (m *model) renderScreenshots() string {
	shot, ok := m.viewer.CurrentScreenshot()
	if !ok {
		return tipsStyle.Render("No screenshots yet")
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(shot.Title))
	sb.WriteString("  ")
	sb.WriteString(tipsStyle.Render(m.viewer.Position()))
	sb.WriteString("\n\n")
	sb.WriteString(shot.ImageRef)
	sb.WriteString("\n")
	sb.WriteString(describeScreenshot(shot))
	sb.WriteString("\n\n")
	sb.WriteString(tipsStyle.Render("← / → to browse"))
	return sb.String()
}

func describeScreenshot(shot gallery.Screenshot) string {
	info, err := gallery.Describe(shot.ImageRef)
	switch {
	case err != nil:
		return errorStyle.Render(err.Error())
	case info.Width == 0:
		return tipsStyle.Render(info.Format)
	default:
		return tipsStyle.Render(fmt.Sprintf("%s • %d × %d", info.Format, info.Width, info.Height))
	}
}

func (m *model) renderLive() string {
	var sb strings.Builder
	sb.WriteString(overlay.RenderSurface(m))
	if m.viewer.ShowTakeControlAffordance() {
		sb.WriteString("\n\n")
		sb.WriteString(tuitypes.ActiveButtonStyle.Render(" t: Take Control "))
	}
	return sb.String()
}

func (m *model) renderDocument() string {
	p := m.viewer.Preview()
	switch p.State() {
	case document.Failed:
		return errorStyle.Render(p.ErrorMessage()) + "\n\n" + tipsStyle.Render("r to retry")
	case document.Ready:
		m.viewport.Height = m.bodyHeight()
		return m.viewport.View()
	default:
		return m.spinner.View() + " " + p.Placeholder()
	}
}

// buildApprovalBar offers the approval overlay while the run awaits input
func (m *model) buildApprovalBar() string {
	if !m.viewer.AwaitingInput() {
		return ""
	}
	text := "Awaiting your input • a: approve or deny"
	if ref := m.PlanRef(); ref != "" {
		text = fmt.Sprintf("Plan %s awaiting review • a: accept or regenerate", ref)
	}
	return awaitingStyle.Render(text)
}

// buildBottomBar renders hints and the dimensions indicator
func (m *model) buildBottomBar() string {
	hints := []string{"tab: switch view", "?: help", "q: quit"}
	if !m.viewer.Handover().IsHandoverActive() {
		hints = append([]string{"enter: maximize"}, hints...)
	}
	left := strings.Join(hints, " • ")

	right := ""
	if d := m.viewer.Dimensions(); m.showDimensions && d.Width > 0 {
		right = d.String()
	}
	if m.sessionErr != nil {
		right = errorStyle.Render("session file error")
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// applyOverlays layers the active overlay and the toast over the base view
func (m *model) applyOverlays(baseView string) string {
	if m.overlay.isActive() {
		if m.overlay.mode == tuitypes.OverlayModeControl {
			baseView = m.overlay.overlay.View()
		} else {
			baseView = renderOverlay(baseView, m.overlay.overlay, m.width, m.height)
		}
	}

	if m.toast.active && time.Now().Before(m.toast.showUntil) {
		baseView = renderToastOverlay(baseView, m.renderToast())
	}
	return baseView
}

// renderToast renders a toast notification
func (m *model) renderToast() string {
	var content strings.Builder
	content.WriteString(fmt.Sprintf("%s %s", m.toast.icon, m.toast.message))
	if m.toast.details != "" {
		content.WriteString("\n")
		content.WriteString(m.toast.details)
	}

	borderColor := tuitypes.SalmonPink
	if m.toast.isError {
		borderColor = tuitypes.ErrorRed
	}
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(max(min(m.width-4, 80), 30))

	return boxStyle.Render(content.String())
}
