package types

import "github.com/charmbracelet/lipgloss"

// Palette shared by the model and overlays.
var (
	SalmonPink  = lipgloss.Color("#FFB3BA")
	CoralPink   = lipgloss.Color("#FFCCCB")
	MintGreen   = lipgloss.Color("#A8E6CF")
	MutedGray   = lipgloss.Color("#6B7280")
	BrightWhite = lipgloss.Color("#F9FAFB")
	WarnAmber   = lipgloss.Color("#FFD59E")
	ErrorRed    = lipgloss.Color("203")
	DarkBg      = lipgloss.Color("#1F2937")
)

var (
	// OverlayTitleStyle is used for main overlay titles
	OverlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(SalmonPink)

	// OverlaySubtitleStyle is used for overlay subtitles and secondary text
	OverlaySubtitleStyle = lipgloss.NewStyle().
				Foreground(MutedGray)

	// OverlayHelpStyle is used for help text and hints
	OverlayHelpStyle = lipgloss.NewStyle().
				Foreground(MutedGray).
				Italic(true)

	// BadgeStyle marks the "You have control" indicator.
	BadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(DarkBg).
			Background(MintGreen).
			Padding(0, 1)

	// BannerStyle is the security notice shown while the human has control.
	BannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(DarkBg).
			Background(WarnAmber).
			Padding(0, 1)

	// ButtonStyle and ActiveButtonStyle render overlay choices.
	ButtonStyle = lipgloss.NewStyle().
			Foreground(BrightWhite).
			Background(MutedGray).
			Padding(0, 1)
	ActiveButtonStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(DarkBg).
				Background(SalmonPink).
				Padding(0, 1)
)

// CreateOverlayContainerStyle returns the bordered container every modal
// overlay is drawn in.
func CreateOverlayContainerStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SalmonPink).
		Padding(1, 2).
		Width(width)
}

// CreateFullscreenStyle returns the container of the fullscreen control
// overlay, which fills the terminal.
func CreateFullscreenStyle(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(MintGreen).
		Padding(0, 1).
		Width(max(width-2, 10)).
		Height(max(height-2, 5))
}
