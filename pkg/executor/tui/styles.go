package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/lookout/pkg/executor/tui/types"
)

// Main view styles. Colors come from the shared palette in types.
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(types.SalmonPink).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(types.MutedGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(types.ErrorRed)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(types.SalmonPink)

	tabStyle = lipgloss.NewStyle().
			Foreground(types.MutedGray).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(types.DarkBg).
			Background(types.SalmonPink).
			Bold(true).
			Padding(0, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(types.BrightWhite).
			Background(types.MutedGray).
			Padding(0, 1)

	awaitingStyle = lipgloss.NewStyle().
			Foreground(types.DarkBg).
			Background(types.WarnAmber).
			Bold(true).
			Padding(0, 1)

	// Container Styles
	statusBarStyle = lipgloss.NewStyle().
			Foreground(types.MutedGray).
			Padding(0, 1)

	bodyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(types.CoralPink).
			Padding(0, 1)
)
