package tui

import (
	"fmt"
	"slices"
	"strings"
	"weak"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/pluqqy/textpad/internal/cli"
	"github.com/pluqqy/textpad/pkg/dialog"
	"github.com/pluqqy/textpad/pkg/files"
	"github.com/pluqqy/textpad/pkg/layout"
)

// Object ids the editor resolves from the layout
const (
	WindowID   = "winMain"
	TextViewID = "txtView"
)

// Handler names the layout binds signals to
const (
	HandlerWindowDestroy = "winMain_Destroy"
	HandlerNewClicked    = "btnNew_Clicked"
	HandlerOpenClicked   = "btnOpen_Clicked"
	HandlerSaveClicked   = "btnSave_Clicked"
	HandlerCopyClicked   = "btnCopy_Clicked"
)

var requiredHandlers = []string{
	HandlerWindowDestroy,
	HandlerNewClicked,
	HandlerOpenClicked,
	HandlerSaveClicked,
}

// RequiredHandlers returns the handlers a layout is expected to bind
func RequiredHandlers() []string {
	return slices.Clone(requiredHandlers)
}

// ProvidedHandlers returns every handler name the editor can connect
func ProvidedHandlers() []string {
	return append(RequiredHandlers(), HandlerCopyClicked)
}

// Options configures NewEditor. Zero values select the defaults.
type Options struct {
	LayoutPath string                 // Interface description; layout.DefaultPath when empty
	Store      *files.Store           // Filesystem for the layout and saved files
	Presenter  *dialog.Presenter      // Creates the open and save choosers
	Clipboard  func(text string) error // Copy target; the system clipboard when nil
}

type accelerator struct {
	id      string
	binding key.Binding
}

type editorKeyMap struct {
	Quit      key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding
	Activate  key.Binding
}

func defaultKeyMap() editorKeyMap {
	return editorKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("ctrl+q", "quit"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
		),
	}
}

// Editor is the main window controller. It binds the layout's signals,
// mediates the text buffer and runs the file choosers.
type Editor struct {
	builder  *layout.Builder
	window   *Window
	textView *TextView
	buttons  []*layout.Object
	accels   []accelerator
	keys     editorKeyMap
	focus    int // 0 is the text view, n is buttons[n-1]

	store     *files.Store
	presenter *dialog.Presenter
	clipboard func(string) error

	chooser  *dialog.FileChooser
	onAccept func(path string) tea.Cmd
}

// NewEditor loads the interface description and builds the editor. It fails
// when the description cannot be loaded or lacks the main window or the text
// view.
func NewEditor(opts Options) (*Editor, error) {
	if opts.LayoutPath == "" {
		opts.LayoutPath = layout.DefaultPath
	}
	if opts.Store == nil {
		opts.Store = files.NewStore(nil)
	}
	if opts.Presenter == nil {
		opts.Presenter = &dialog.Presenter{}
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	builder, err := layout.Load(opts.Store, opts.LayoutPath)
	if err != nil {
		return nil, err
	}

	e := &Editor{
		builder:   builder,
		keys:      defaultKeyMap(),
		store:     opts.Store,
		presenter: opts.Presenter,
		clipboard: opts.Clipboard,
	}

	for _, name := range builder.ConnectSignals(e.signalHandlers()) {
		cli.PrintWarning("%s: could not find signal handler %q", builder.Name(), name)
	}

	winObj, err := builder.Window(WindowID)
	if err != nil {
		return nil, err
	}
	if _, err := builder.TextView(TextViewID); err != nil {
		return nil, err
	}
	e.window = newWindow(winObj)
	e.textView = NewTextView()

	declared := builder.Handlers()
	for _, name := range requiredHandlers {
		if !slices.Contains(declared, name) {
			cli.PrintWarning("%s: no signal is bound to %s", builder.Name(), name)
		}
	}

	e.buttons = builder.Buttons()
	for _, btn := range e.buttons {
		if btn.Accel == "" {
			continue
		}
		e.accels = append(e.accels, accelerator{
			id: btn.ID,
			binding: key.NewBinding(
				key.WithKeys(btn.Accel),
				key.WithHelp(btn.Accel, strings.ToLower(btn.DisplayLabel())),
			),
		})
	}

	return e, nil
}

// signalHandlers maps handler names to the editor's methods. The handlers
// hold only a weak reference; once the editor is gone they do nothing.
func (e *Editor) signalHandlers() map[string]layout.Handler {
	self := weak.Make(e)
	bind := func(fn func(*Editor) tea.Cmd) layout.Handler {
		return func(*layout.Object) tea.Cmd {
			if ed := self.Value(); ed != nil {
				return fn(ed)
			}
			return nil
		}
	}

	return map[string]layout.Handler{
		HandlerWindowDestroy: bind((*Editor).onWindowDestroy),
		HandlerNewClicked:    bind((*Editor).onNewClicked),
		HandlerOpenClicked:   bind((*Editor).onOpenClicked),
		HandlerSaveClicked:   bind((*Editor).onSaveClicked),
		HandlerCopyClicked:   bind((*Editor).onCopyClicked),
	}
}

// Text returns the whole buffer. It reports false only when the text view
// was never realized.
func (e *Editor) Text() (string, bool) {
	if e.textView == nil {
		return "", false
	}
	return e.textView.Text(), true
}

// SetText replaces the whole buffer; "" empties it
func (e *Editor) SetText(text string) {
	if e.textView == nil {
		return
	}
	e.textView.SetText(text)
}

// Window returns the main window
func (e *Editor) Window() *Window {
	return e.window
}

// ActiveDialog returns the chooser currently presented, or nil
func (e *Editor) ActiveDialog() *dialog.FileChooser {
	return e.chooser
}

// Click emits the clicked signal of the button with id
func (e *Editor) Click(id string) tea.Cmd {
	return e.emit(id, layout.SignalClicked)
}

// Close destroys a chooser that is still presented
func (e *Editor) Close() {
	if e.chooser != nil {
		e.chooser.Destroy()
	}
	e.chooser = nil
	e.onAccept = nil
}

func (e *Editor) onWindowDestroy() tea.Cmd {
	e.Close()
	return tea.Quit
}

func (e *Editor) onNewClicked() tea.Cmd {
	e.SetText("")
	return nil
}

func (e *Editor) onOpenClicked() tea.Cmd {
	chooser, cmd := e.presenter.PresentOpenDialog(e.window)
	return e.present(chooser, cmd, func(string) tea.Cmd {
		// The chosen file is not read; accepting only clears the buffer
		e.SetText("")
		return nil
	})
}

func (e *Editor) onSaveClicked() tea.Cmd {
	chooser, cmd := e.presenter.PresentSaveDialog(e.window)
	return e.present(chooser, cmd, e.saveTo)
}

func (e *Editor) onCopyClicked() tea.Cmd {
	text, _ := e.Text()
	if err := e.clipboard(text); err != nil {
		cli.PrintError("Error copying: %v", err)
		return nil
	}
	return func() tea.Msg {
		return StatusMsg("Copied buffer to clipboard")
	}
}

// saveTo writes the buffer to path. A failure is reported on the
// diagnostics stream and in the status bar; the buffer is left as it was.
func (e *Editor) saveTo(path string) tea.Cmd {
	text, ok := e.Text()
	if !ok {
		return nil
	}
	if err := e.store.WriteAtomic(path, text); err != nil {
		cli.PrintError("Error saving: %v", err)
		// stderr is hidden behind the alt screen
		status := fmt.Sprintf("Error saving: %v", err)
		return func() tea.Msg {
			return StatusMsg(status)
		}
	}

	status := fmt.Sprintf("Saved %s to %s", humanize.Bytes(uint64(len(text))), path)
	return func() tea.Msg {
		return StatusMsg(status)
	}
}

// present makes chooser the modal dialog. onAccept runs with the chosen
// path once the chooser has been destroyed.
func (e *Editor) present(chooser *dialog.FileChooser, cmd tea.Cmd, onAccept func(path string) tea.Cmd) tea.Cmd {
	if e.chooser != nil {
		chooser.Destroy()
		return nil
	}
	e.chooser = chooser
	e.onAccept = onAccept
	e.textView.Blur()
	return cmd
}

func (e *Editor) finishDialog(msg dialog.ResponseMsg) tea.Cmd {
	chooser, onAccept := e.chooser, e.onAccept
	e.chooser, e.onAccept = nil, nil

	focusCmd := e.applyFocus()
	path, ok := dialog.Finish(chooser, msg)
	if !ok || onAccept == nil {
		return focusCmd
	}
	return tea.Batch(focusCmd, onAccept(path))
}

// Init focuses the text view
func (e *Editor) Init() tea.Cmd {
	e.focus = 0
	return e.applyFocus()
}

// SetSize lays the window out for a terminal of the given size
func (e *Editor) SetSize(width, height int) {
	e.window.SetSize(width, height)

	// Title, toolbar and the text view's border
	chrome := e.window.TitleHeight() + 3 + 2
	e.textView.SetSize(width-4, height-chrome)
}

// Update handles a message. While a chooser is presented it receives
// everything except its own response.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	if e.chooser != nil {
		switch msg := msg.(type) {
		case dialog.ResponseMsg:
			if msg.ID == e.chooser.ID() {
				return e.finishDialog(msg)
			}
			return nil
		case tea.WindowSizeMsg:
			e.SetSize(msg.Width, msg.Height)
		}
		return e.chooser.Update(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.SetSize(msg.Width, msg.Height)
		return nil
	case tea.KeyMsg:
		return e.handleKey(msg)
	case dialog.ResponseMsg:
		// Response from a chooser that is already gone
		return nil
	}
	return e.textView.Update(msg)
}

func (e *Editor) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, e.keys.Quit):
		if cmd, ok := e.builder.Emit(e.window.ID(), layout.SignalDestroy); ok {
			return cmd
		}
		return tea.Quit
	case key.Matches(msg, e.keys.NextFocus):
		return e.moveFocus(1)
	case key.Matches(msg, e.keys.PrevFocus):
		return e.moveFocus(-1)
	}

	for _, acc := range e.accels {
		if key.Matches(msg, acc.binding) {
			return e.Click(acc.id)
		}
	}

	if e.focus > 0 {
		if key.Matches(msg, e.keys.Activate) {
			return e.Click(e.buttons[e.focus-1].ID)
		}
		return nil
	}
	return e.textView.Update(msg)
}

func (e *Editor) emit(id, signal string) tea.Cmd {
	cmd, _ := e.builder.Emit(id, signal)
	return cmd
}

func (e *Editor) moveFocus(delta int) tea.Cmd {
	n := len(e.buttons) + 1
	e.focus = ((e.focus+delta)%n + n) % n
	return e.applyFocus()
}

func (e *Editor) applyFocus() tea.Cmd {
	if e.focus == 0 {
		return e.textView.Focus()
	}
	e.textView.Blur()
	return nil
}

// FocusedButton returns the id of the focused button, or "" when the text
// view has focus
func (e *Editor) FocusedButton() string {
	if e.focus == 0 {
		return ""
	}
	return e.buttons[e.focus-1].ID
}

// View renders the window, or the chooser while one is presented
func (e *Editor) View() string {
	if e.chooser != nil {
		return e.chooser.View()
	}
	return e.render(e.window.obj)
}

func (e *Editor) render(obj *layout.Object) string {
	switch obj.Class {
	case layout.ClassWindow:
		parts := []string{e.window.TitleBar()}
		for _, child := range obj.Children {
			parts = append(parts, e.render(child))
		}
		return lipgloss.JoinVertical(lipgloss.Left, parts...)

	case layout.ClassBox:
		var parts []string
		for _, child := range obj.Children {
			parts = append(parts, e.render(child))
		}
		if obj.Orientation == layout.Horizontal {
			return ContentPaddingStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
		}
		return lipgloss.JoinVertical(lipgloss.Left, parts...)

	case layout.ClassButton:
		return e.renderButton(obj)

	case layout.ClassTextView:
		// Only the resolved text view is backed by the buffer
		if obj.ID != TextViewID {
			return ""
		}
		return ContentPaddingStyle.Render(GetBorderStyle(e.focus == 0).Render(e.textView.View()))

	case layout.ClassLabel:
		return ContentPaddingStyle.Render(obj.DisplayLabel())
	}
	return ""
}

func (e *Editor) renderButton(obj *layout.Object) string {
	focused := e.focus > 0 && e.buttons[e.focus-1] == obj

	style := ButtonStyle
	if focused {
		style = FocusedButtonStyle
	}
	label := style.Render(obj.DisplayLabel())
	if obj.Accel != "" {
		label += AccelStyle.Render(obj.Accel)
	}
	return GetBorderStyle(focused).Render(label)
}

// HelpView renders the accelerator hints
func (e *Editor) HelpView() string {
	var hints []string
	for _, acc := range e.accels {
		h := acc.binding.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	for _, b := range []key.Binding{e.keys.NextFocus, e.keys.Quit} {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	return strings.Join(hints, " • ")
}
