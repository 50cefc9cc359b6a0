// Package dialog implements modal file choosers for opening and saving files.
package dialog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/afero"

	"github.com/pluqqy/textpad/pkg/layout"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// Action selects what the chooser is for
type Action int

const (
	ActionOpen Action = iota
	ActionSave
)

// Response is how a chooser was dismissed
type Response int

const (
	ResponseNone Response = iota
	ResponseAccept
	ResponseCancel
	ResponseDeleteEvent
)

func (r Response) String() string {
	switch r {
	case ResponseAccept:
		return "accept"
	case ResponseCancel:
		return "cancel"
	case ResponseDeleteEvent:
		return "delete-event"
	default:
		return "none"
	}
}

// Button is one of the chooser's action buttons. The label may carry a
// mnemonic marker.
type Button struct {
	Label    string
	Response Response
}

// Parent is the window a chooser is presented over
type Parent interface {
	Title() string
	Size() (width, height int)
}

// ResponseMsg reports that the chooser with ID was dismissed
type ResponseMsg struct {
	ID       int
	Response Response
	Filename string
}

type focusArea int

const (
	focusBrowser focusArea = iota
	focusName
)

// FileChooser is a modal file selection dialog. While it is presented it
// consumes every message sent to it; its outcome is delivered once as a
// ResponseMsg. Callers must Destroy it after the response arrives.
type FileChooser struct {
	id      int
	title   string
	action  Action
	buttons []Button
	parent  Parent
	fs      afero.Fs

	overwriteConfirmation bool

	picker  filepicker.Model
	name    textinput.Model
	focus   focusArea
	confirm *ConfirmationModel

	response  Response
	filename  string
	destroyed bool
}

// NewFileChooser creates a chooser titled title for action
func NewFileChooser(title string, parent Parent, action Action, buttons ...Button) *FileChooser {
	fp := filepicker.New()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AllowedTypes = []string{} // Empty means all files are allowed
	fp.AutoHeight = false
	fp.Height = 10

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 255
	ti.Cursor.SetMode(cursor.CursorStatic)

	c := &FileChooser{
		id:      nextID(),
		title:   title,
		action:  action,
		buttons: buttons,
		parent:  parent,
		fs:      afero.NewOsFs(),
		picker:  fp,
		name:    ti,
		confirm: NewConfirmation(),
	}

	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	c.SetCurrentFolder(dir)
	return c
}

// ID identifies the chooser in its ResponseMsg
func (c *FileChooser) ID() int {
	return c.id
}

// Title returns the chooser's title
func (c *FileChooser) Title() string {
	return c.title
}

// Action returns what the chooser is for
func (c *FileChooser) Action() Action {
	return c.action
}

// Buttons returns the chooser's action buttons
func (c *FileChooser) Buttons() []Button {
	return c.buttons
}

// SetFs sets the filesystem used for existence checks
func (c *FileChooser) SetFs(fs afero.Fs) {
	if fs != nil {
		c.fs = fs
	}
}

// SetCurrentFolder sets the directory the chooser browses
func (c *FileChooser) SetCurrentFolder(dir string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	c.picker.CurrentDirectory = dir
}

// CurrentFolder returns the directory being browsed
func (c *FileChooser) CurrentFolder() string {
	return c.picker.CurrentDirectory
}

// SetShowHidden controls whether dot files are listed
func (c *FileChooser) SetShowHidden(show bool) {
	c.picker.ShowHidden = show
}

// SetCurrentName proposes a file name in a save chooser
func (c *FileChooser) SetCurrentName(name string) {
	c.name.SetValue(name)
	c.name.CursorEnd()
}

// CurrentName returns the file name typed or proposed so far
func (c *FileChooser) CurrentName() string {
	return c.name.Value()
}

// SetDoOverwriteConfirmation makes a save chooser ask before accepting an
// existing file
func (c *FileChooser) SetDoOverwriteConfirmation(confirm bool) {
	c.overwriteConfirmation = confirm
}

// DoOverwriteConfirmation reports whether overwrite confirmation is enabled
func (c *FileChooser) DoOverwriteConfirmation() bool {
	return c.overwriteConfirmation
}

// Response returns how the chooser was dismissed, or ResponseNone
func (c *FileChooser) Response() Response {
	return c.response
}

// Destroyed reports whether Destroy has been called
func (c *FileChooser) Destroyed() bool {
	return c.destroyed
}

// Run presents the chooser. The returned command reads the first directory.
func (c *FileChooser) Run() tea.Cmd {
	if c.parent != nil {
		c.resize(c.parent.Size())
	}
	if c.action == ActionSave {
		c.setFocus(focusName)
	} else {
		c.setFocus(focusBrowser)
	}
	return c.picker.Init()
}

// Destroy releases the chooser's widgets. It is safe to call more than once.
func (c *FileChooser) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.confirm.Hide()
	c.name.Blur()
	c.name.Reset()
	c.picker = filepicker.Model{}
	c.parent = nil
}

// Finish destroys c and returns the accepted file name, if any. Cancellation
// and dismissal are not errors; they report false.
func Finish(c *FileChooser, msg ResponseMsg) (string, bool) {
	defer c.Destroy()

	if msg.ID != c.id || msg.Response != ResponseAccept || msg.Filename == "" {
		return "", false
	}
	return msg.Filename, true
}

// Update handles a message while the chooser is presented
func (c *FileChooser) Update(msg tea.Msg) tea.Cmd {
	if c.destroyed || c.response != ResponseNone {
		return nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.resize(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		if c.confirm.Active() {
			return c.confirm.Update(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			return c.respond(ResponseDeleteEvent, "")
		case "esc":
			return c.respond(ResponseCancel, "")
		case "tab", "shift+tab":
			if c.action == ActionSave {
				if c.focus == focusName {
					c.setFocus(focusBrowser)
				} else {
					c.setFocus(focusName)
				}
				return nil
			}
		}

		if c.action == ActionSave && c.focus == focusName {
			if msg.Type == tea.KeyEnter {
				return c.acceptName()
			}
			var cmd tea.Cmd
			c.name, cmd = c.name.Update(msg)
			return cmd
		}
	}

	// Keys for the browser and the picker's own directory reads
	return c.updateBrowser(msg)
}

func (c *FileChooser) updateBrowser(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.picker, cmd = c.picker.Update(msg)

	if didSelect, path := c.picker.DidSelectFile(msg); didSelect {
		if c.action == ActionOpen {
			return c.accept(path)
		}
		c.SetCurrentName(filepath.Base(path))
		c.setFocus(focusName)
	}
	return cmd
}

func (c *FileChooser) acceptName() tea.Cmd {
	name := strings.TrimSpace(c.name.Value())
	if name == "" {
		return nil
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.picker.CurrentDirectory, name)
	}

	// A folder name navigates instead of accepting
	if isDir, err := afero.IsDir(c.fs, path); err == nil && isDir {
		c.SetCurrentFolder(path)
		c.name.SetValue("")
		return c.picker.Init()
	}
	return c.accept(path)
}

func (c *FileChooser) accept(path string) tea.Cmd {
	if c.action == ActionSave && c.overwriteConfirmation {
		if exists, err := afero.Exists(c.fs, path); err == nil && exists {
			c.confirm.Show(ConfirmationConfig{
				Title:       "Replace File?",
				Message:     fmt.Sprintf("A file named %q already exists.", filepath.Base(path)),
				Warning:     "Replacing it will overwrite its contents.",
				Destructive: true,
				YesLabel:    "Replace",
				NoLabel:     "Cancel",
				Width:       c.contentWidth(),
			}, func() tea.Cmd {
				return c.respond(ResponseAccept, path)
			}, nil)
			return nil
		}
	}
	return c.respond(ResponseAccept, path)
}

func (c *FileChooser) respond(r Response, filename string) tea.Cmd {
	c.response = r
	c.filename = filename
	id := c.id
	return func() tea.Msg {
		return ResponseMsg{ID: id, Response: r, Filename: filename}
	}
}

func (c *FileChooser) setFocus(f focusArea) {
	c.focus = f
	if f == focusName {
		c.name.Focus()
	} else {
		c.name.Blur()
	}
}

func (c *FileChooser) resize(width, height int) {
	h := height - 14
	if height == 0 || h < 3 {
		h = 10
	}
	c.picker.Height = h
	c.name.Width = c.contentWidth() - 10
}

func (c *FileChooser) contentWidth() int {
	if c.parent == nil {
		return 60
	}
	w, _ := c.parent.Size()
	w = w * 2 / 3
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// View renders the chooser centered over its parent
func (c *FileChooser) View() string {
	if c.destroyed {
		return ""
	}
	if c.confirm.Active() {
		return c.place(c.confirm.View())
	}

	width := c.contentWidth()
	var b strings.Builder

	b.WriteString(dialogTitleStyle.Render(c.title))
	b.WriteString("\n\n")

	if c.action == ActionSave {
		label := fieldLabelStyle.Render("Name: ")
		if c.focus == focusName {
			label = dialogTitleStyle.Render("Name: ")
		}
		b.WriteString(label + c.name.View())
		b.WriteString("\n\n")
	}

	folder := truncate.StringWithTail(c.picker.CurrentDirectory, uint(width-12), "…")
	b.WriteString(pathStyle.Render("Folder: " + folder))
	b.WriteString("\n\n")
	b.WriteString(c.picker.View())
	b.WriteString("\n\n")
	b.WriteString(c.renderButtons())

	hints := "esc cancel"
	if c.action == ActionSave {
		hints = "tab switch field • " + hints
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(hints))

	return c.place(dialogBorderStyle.Width(width).Render(b.String()))
}

func (c *FileChooser) renderButtons() string {
	var rendered []string
	for _, btn := range c.buttons {
		switch btn.Response {
		case ResponseAccept:
			rendered = append(rendered, defaultButtonStyle.Render("[enter] "+layout.Mnemonic(btn.Label)))
		case ResponseCancel:
			rendered = append(rendered, buttonStyle.Render("[esc] "+layout.Mnemonic(btn.Label)))
		default:
			rendered = append(rendered, buttonStyle.Render(layout.Mnemonic(btn.Label)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (c *FileChooser) place(content string) string {
	if c.parent == nil {
		return content
	}
	w, h := c.parent.Size()
	if w == 0 || h == 0 {
		return content
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, content)
}
