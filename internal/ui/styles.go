package ui

import "github.com/charmbracelet/lipgloss"

// Color palette - using ANSI 256 colors for broad terminal support
var (
	ColorCyan   = lipgloss.Color("6")
	ColorYellow = lipgloss.Color("3")
	ColorRed    = lipgloss.Color("1")
	ColorGreen  = lipgloss.Color("2")
	ColorGray   = lipgloss.Color("8")
	ColorBlack  = lipgloss.Color("0")
)

// Text styles
var (
	// Status messages ("Fetching logs...", "Checking cluster health...")
	StatusStyle = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)

	// Error messages
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)

	// Warning messages
	WarningStyle = lipgloss.NewStyle().Foreground(ColorYellow)

	// Success messages
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	// Muted/secondary text
	MutedStyle = lipgloss.NewStyle().Foreground(ColorGray)

	// Highlighted/matched text
	HighlightStyle = lipgloss.NewStyle().
			Background(ColorYellow).
			Foreground(ColorBlack).
			Bold(true)

	// Labels (field names, headers)
	LabelStyle = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)

	// Section titles
	SectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCyan)
)

// HealthStyle maps an engine health color (green/yellow/red) to the style
// it is rendered in. Unknown values render muted.
func HealthStyle(status string) lipgloss.Style {
	switch status {
	case "green":
		return SuccessStyle
	case "yellow":
		return WarningStyle
	case "red":
		return ErrorStyle
	default:
		return MutedStyle
	}
}
