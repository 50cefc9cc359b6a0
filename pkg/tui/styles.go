package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color constants
const (
	ColorActive   = "170" // Purple/magenta for active elements
	ColorInactive = "240" // Gray for inactive elements
	ColorNormal   = "245" // Light gray for normal text
	ColorDim      = "241" // Dimmer gray
	ColorWarning  = "214" // Orange/yellow for warnings
	ColorWhite    = "255" // White
	ColorStatusBg = "62"  // Status bar background
	ColorStatusFg = "230" // Status bar text
)

// Common styles
var (
	// Border styles
	ActiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorActive))

	InactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorInactive))

	// Window title bar
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWhite)).
			Background(lipgloss.Color("0")).
			Bold(true).
			Padding(0, 1)

	// Button styles
	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorNormal)).
			Padding(0, 1)

	FocusedButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorActive)).
				Bold(true).
				Padding(0, 1)

	// Accelerator hint shown next to a button label
	AccelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDim))

	// Padding styles
	ContentPaddingStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				PaddingRight(1)

	// Help line below the window
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorInactive)).
			PaddingLeft(1)

	// Status bar
	StatusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(ColorStatusBg)).
			Foreground(lipgloss.Color(ColorStatusFg)).
			Padding(0, 1)
)

// GetBorderStyle returns the border for a widget depending on focus
func GetBorderStyle(focused bool) lipgloss.Style {
	if focused {
		return ActiveBorderStyle
	}
	return InactiveBorderStyle
}
