package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/pluqqy/textpad/pkg/layout"
)

// Window is the editor's main window as described by the layout
type Window struct {
	obj    *layout.Object
	width  int
	height int
}

func newWindow(obj *layout.Object) *Window {
	return &Window{obj: obj}
}

// ID returns the window's object id
func (w *Window) ID() string {
	return w.obj.ID
}

// Title returns the window title
func (w *Window) Title() string {
	return w.obj.Title
}

// Size returns the terminal area the window covers
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

// SetSize records the terminal size
func (w *Window) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// TitleHeight returns the rows the title bar takes
func (w *Window) TitleHeight() int {
	if w.obj.Title == "" {
		return 0
	}
	// title line plus one row of padding above and below
	return 3
}

// TitleBar renders the title, cut to fit the window width
func (w *Window) TitleBar() string {
	if w.obj.Title == "" {
		return ""
	}

	title := w.obj.Title
	if avail := w.width - 4; avail > 0 {
		title = truncate.StringWithTail(title, uint(avail), "…")
	}

	bar := TitleStyle.Render("\n" + title + "\n")
	return lipgloss.NewStyle().Width(w.width).Padding(0, 1).Render(bar)
}
