package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorNavy   = lipgloss.Color("#1B2A4A")
	ColorBlue   = lipgloss.Color("#4A9EFF")
	ColorGreen  = lipgloss.Color("#49E209")
	ColorOrange = lipgloss.Color("#FFAA00")
	ColorRed    = lipgloss.Color("#FF4444")
	ColorGray   = lipgloss.Color("#808080")
	ColorWhite  = lipgloss.Color("#FFFFFF")
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray)

	selectedButtonStyle = buttonStyle.
				BorderForeground(ColorBlue).
				Foreground(ColorWhite).
				Bold(true)

	activeButtonStyle = buttonStyle.BorderForeground(ColorGreen)

	bodyStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorNavy)

	labelStyle = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)
	errorStyle = lipgloss.NewStyle().Foreground(ColorRed)
	okStyle    = lipgloss.NewStyle().Foreground(ColorGreen)
	warnStyle  = lipgloss.NewStyle().Foreground(ColorOrange)

	statusStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite)
)
