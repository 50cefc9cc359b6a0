package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// TextView is the editor's text area. It owns the document buffer.
//
// The textarea normalizes some input (tabs, carriage returns), so the text
// assigned with SetText is kept verbatim. An edit replaces only the lines it
// touched, and those lines take the textarea's normalized form.
type TextView struct {
	area  textarea.Model
	text  string
	shown string // area.Value() right after the last SetText or edit
}

// NewTextView creates an empty text view
func NewTextView() *TextView {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Prompt = "  " // Use spaces instead of vertical line
	ta.CharLimit = 0 // No limit
	ta.MaxHeight = 0
	ta.SetWidth(80)
	ta.SetHeight(20)

	return &TextView{area: ta}
}

// Text returns the whole buffer
func (v *TextView) Text() string {
	return v.text
}

// SetText replaces the whole buffer
func (v *TextView) SetText(text string) {
	v.text = text
	v.area.SetValue(text)
	v.shown = v.area.Value()
}

// Focus gives the text view keyboard focus
func (v *TextView) Focus() tea.Cmd {
	return v.area.Focus()
}

// Blur removes keyboard focus
func (v *TextView) Blur() {
	v.area.Blur()
}

// Focused reports whether the text view has keyboard focus
func (v *TextView) Focused() bool {
	return v.area.Focused()
}

// SetSize updates the text area dimensions
func (v *TextView) SetSize(width, height int) {
	if width < 10 {
		width = 10
	}
	if height < 1 {
		height = 1
	}
	v.area.SetWidth(width)
	v.area.SetHeight(height)
}

// Update passes msg to the text area and picks up any edit it made
func (v *TextView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.area, cmd = v.area.Update(msg)

	if value := v.area.Value(); value != v.shown {
		v.text = mergeEdit(v.text, v.shown, value)
		v.shown = value
	}
	return cmd
}

// mergeEdit applies the change from shown to value onto text, where shown is
// text as the textarea normalized it. Leading and trailing lines the edit left
// alone are taken from text. When the line structures disagree the edited
// value wins.
func mergeEdit(text, shown, value string) string {
	orig := strings.Split(text, "\n")
	before := strings.Split(shown, "\n")
	if len(orig) != len(before) {
		return value
	}
	after := strings.Split(value, "\n")

	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}

	merged := make([]string, 0, len(after))
	merged = append(merged, orig[:prefix]...)
	merged = append(merged, after[prefix:len(after)-suffix]...)
	merged = append(merged, orig[len(orig)-suffix:]...)
	return strings.Join(merged, "\n")
}

// View renders the text area
func (v *TextView) View() string {
	return v.area.View()
}
