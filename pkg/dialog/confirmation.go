package dialog

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationConfig holds the configuration for a confirmation prompt
type ConfirmationConfig struct {
	Title       string // Title shown above the message (optional)
	Message     string // Main confirmation message
	Warning     string // Optional warning text (shown in orange)
	Destructive bool   // If true, Yes is red, No is green
	YesLabel    string // Custom label for Yes (default: "Yes")
	NoLabel     string // Custom label for No (default: "No")
	Width       int
}

// ConfirmationModel handles yes/no prompts inside a dialog
type ConfirmationModel struct {
	active    bool
	config    ConfirmationConfig
	onConfirm func() tea.Cmd
	onCancel  func() tea.Cmd
}

// NewConfirmation creates a new confirmation model
func NewConfirmation() *ConfirmationModel {
	return &ConfirmationModel{}
}

// Show activates the confirmation with the given configuration
func (m *ConfirmationModel) Show(config ConfirmationConfig, onConfirm, onCancel func() tea.Cmd) {
	m.active = true
	m.config = config
	m.onConfirm = onConfirm
	m.onCancel = onCancel

	if m.config.YesLabel == "" {
		m.config.YesLabel = "Yes"
	}
	if m.config.NoLabel == "" {
		m.config.NoLabel = "No"
	}
}

// Hide deactivates the confirmation without running either callback
func (m *ConfirmationModel) Hide() {
	m.active = false
	m.onConfirm = nil
	m.onCancel = nil
}

// Active returns whether the confirmation is currently shown
func (m *ConfirmationModel) Active() bool {
	return m.active
}

// Update handles key events for the confirmation
func (m *ConfirmationModel) Update(msg tea.KeyMsg) tea.Cmd {
	if !m.active {
		return nil
	}

	switch msg.String() {
	case "y", "Y":
		m.active = false
		if m.onConfirm != nil {
			return m.onConfirm()
		}
	case "n", "N", "esc":
		m.active = false
		if m.onCancel != nil {
			return m.onCancel()
		}
	}
	return nil
}

// View renders the confirmation with a border
func (m *ConfirmationModel) View() string {
	if !m.active {
		return ""
	}

	width := m.config.Width
	if width == 0 {
		width = 60
	}
	contentWidth := width - 4
	center := lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center)

	var content strings.Builder
	if m.config.Title != "" {
		content.WriteString(center.Render(dialogTitleStyle.Render(m.config.Title)))
		content.WriteString("\n\n")
	}
	if m.config.Message != "" {
		content.WriteString(center.Render(m.config.Message))
		content.WriteString("\n")
	}
	if m.config.Warning != "" {
		content.WriteString("\n")
		content.WriteString(center.Render(warningStyle.Render(m.config.Warning)))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	labels := fmt.Sprintf("(%s / %s)",
		strings.ToLower(m.config.YesLabel),
		strings.ToLower(m.config.NoLabel))
	content.WriteString(center.Render(formatConfirmOptions(m.config.Destructive) + "  " + labels))

	return confirmBorderStyle.Width(width).Render(content.String())
}

// formatConfirmOptions renders the [y]/[n] hints, coloring the risky one red
func formatConfirmOptions(destructive bool) string {
	yes := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSuccess))
	no := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDanger))
	if destructive {
		yes, no = no, yes
	}
	return yes.Render("[y]") + "/" + no.Render("[n]")
}
