package dialog

import "github.com/charmbracelet/lipgloss"

const (
	colorActive   = "170"
	colorInactive = "240"
	colorNormal   = "245"
	colorWarning  = "214"
	colorDanger   = "196"
	colorSuccess  = "28"
)

var (
	dialogBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(colorActive)).
				Padding(0, 1)

	confirmBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(colorWarning))

	dialogTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(colorActive))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorWarning))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorNormal))

	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorNormal))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorNormal)).
			Padding(0, 1)

	defaultButtonStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(colorActive)).
				Padding(0, 1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInactive))
)
