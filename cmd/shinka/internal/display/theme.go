// Package display renders CLI output.
package display

import "github.com/charmbracelet/lipgloss"

const (
	shinkaBlue  = "#4A90E2"
	shinkaGreen = "#00D09C"
	shinkaAmber = "#FF9500"
	shinkaRed   = "#FF3B30"
	mediumGray  = "#9B9B9B"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(shinkaBlue))
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(shinkaGreen))
	WarningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(shinkaAmber))
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(shinkaRed))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(mediumGray))

	PayloadBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(shinkaBlue)).
			Padding(0, 1)
)

// fitnessStyle grades a fitness value into a semantic style.
func fitnessStyle(f float64) lipgloss.Style {
	switch {
	case f >= 0.8:
		return SuccessStyle
	case f >= 0.4:
		return WarningStyle
	default:
		return ErrorStyle
	}
}
