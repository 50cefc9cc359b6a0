package tui

import (
	"bytes"
	"errors"
	"os"
	"runtime"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/textpad/internal/cli"
	"github.com/pluqqy/textpad/pkg/dialog"
	"github.com/pluqqy/textpad/pkg/files"
	"github.com/pluqqy/textpad/pkg/layout"
)

// testEditor bundles an editor with the fakes it was built on
type testEditor struct {
	*Editor
	fs        afero.Fs
	diag      *bytes.Buffer
	clipboard []string
}

func shippedLayout(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../../gui.yaml")
	require.NoError(t, err)
	return data
}

// captureDiagnostics redirects warnings and errors for the rest of the test
func captureDiagnostics(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	cli.SetDiagnostics(&buf)
	cli.SetGlobalFlags(false, true)
	t.Cleanup(func() {
		cli.SetDiagnostics(nil)
		cli.SetGlobalFlags(false, false)
	})
	return &buf
}

func newTestEditorWithFs(t *testing.T, fs afero.Fs, layoutData []byte) *testEditor {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, "/app/gui.yaml", layoutData, 0644))
	return buildTestEditor(t, fs)
}

// buildTestEditor builds an editor from the layout at /app/gui.yaml on fs
func buildTestEditor(t *testing.T, fs afero.Fs) *testEditor {
	t.Helper()
	te := &testEditor{fs: fs, diag: captureDiagnostics(t)}
	e, err := NewEditor(Options{
		LayoutPath: "/app/gui.yaml",
		Store:      files.NewStore(fs),
		Presenter:  &dialog.Presenter{StartDir: t.TempDir(), Fs: fs},
		Clipboard: func(text string) error {
			te.clipboard = append(te.clipboard, text)
			return nil
		},
	})
	require.NoError(t, err)
	te.Editor = e
	return te
}

func newTestEditor(t *testing.T) *testEditor {
	t.Helper()
	return newTestEditorWithFs(t, afero.NewMemMapFs(), shippedLayout(t))
}

func text(t *testing.T, e *Editor) string {
	t.Helper()
	s, ok := e.Text()
	require.True(t, ok)
	return s
}

// respond answers the editor's open chooser
func respond(t *testing.T, e *Editor, response dialog.Response, filename string) *dialog.FileChooser {
	t.Helper()
	chooser := e.ActiveDialog()
	require.NotNil(t, chooser, "expected a chooser to be presented")
	e.Update(dialog.ResponseMsg{ID: chooser.ID(), Response: response, Filename: filename})
	return chooser
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "ctrl+q":
		return tea.KeyMsg{Type: tea.KeyCtrlQ}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewEditor_Errors(t *testing.T) {
	tests := []struct {
		name   string
		layout string
	}{
		{name: "malformed description", layout: "objects: [\n"},
		{name: "empty description", layout: ""},
		{name: "missing window", layout: "objects:\n  - id: txtView\n    class: textview\n"},
		{name: "missing text view", layout: "objects:\n  - id: winMain\n    class: window\n"},
		{name: "window has wrong class", layout: "objects:\n  - id: winMain\n    class: label\n  - id: txtView\n    class: textview\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureDiagnostics(t)
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "gui.yaml", []byte(tt.layout), 0644))

			e, err := NewEditor(Options{Store: files.NewStore(fs)})
			assert.Error(t, err)
			assert.Nil(t, e)
		})
	}

	t.Run("missing description", func(t *testing.T) {
		e, err := NewEditor(Options{Store: files.NewStore(afero.NewMemMapFs())})
		assert.Error(t, err)
		assert.Nil(t, e)
	})
}

func TestNewEditor_WarnsAboutHandlers(t *testing.T) {
	description := `objects:
  - id: winMain
    class: window
    signals:
      - name: destroy
        handler: winMain_Destroy
    children:
      - id: btnNew
        class: button
        label: _New
        signals:
          - name: clicked
            handler: btnNew_Clicked
      - id: btnPrint
        class: button
        label: _Print
        signals:
          - name: clicked
            handler: btnPrint_Clicked
      - id: txtView
        class: textview
`
	te := newTestEditorWithFs(t, afero.NewMemMapFs(), []byte(description))

	out := te.diag.String()
	assert.Contains(t, out, `could not find signal handler "btnPrint_Clicked"`)
	assert.Contains(t, out, "no signal is bound to btnOpen_Clicked")
	assert.Contains(t, out, "no signal is bound to btnSave_Clicked")
	assert.NotContains(t, out, "btnNew_Clicked")

	// The editor still works with what is bound
	te.SetText("hello")
	te.Click("btnNew")
	assert.Equal(t, "", text(t, te.Editor))
}

func TestEditor_SetTextThenText(t *testing.T) {
	tests := []string{
		"",
		"hello",
		"line one\nline two\n",
		"héllo wörld 世界 🙂",
		"tab\tseparated\r\nwindows line",
		"\n\n\n",
	}

	te := newTestEditor(t)
	for _, s := range tests {
		te.SetText(s)
		assert.Equal(t, s, text(t, te.Editor))
	}
}

func TestEditor_TypingEditsBuffer(t *testing.T) {
	te := newTestEditor(t)
	te.Init()

	te.Update(keyMsg("hi"))
	assert.Equal(t, "hi", text(t, te.Editor))
}

func TestEditor_NewClicked(t *testing.T) {
	for _, trigger := range []string{"button", "accelerator", "focused button"} {
		t.Run(trigger, func(t *testing.T) {
			te := newTestEditor(t)
			te.SetText("hello")

			switch trigger {
			case "button":
				te.Click("btnNew")
			case "accelerator":
				te.Update(keyMsg("ctrl+n"))
			case "focused button":
				te.Update(keyMsg("tab"))
				require.Equal(t, "btnNew", te.FocusedButton())
				te.Update(keyMsg("enter"))
			}

			assert.Equal(t, "", text(t, te.Editor))
			assert.Nil(t, te.ActiveDialog())
		})
	}
}

func TestEditor_SaveWritesBuffer(t *testing.T) {
	te := newTestEditor(t)
	te.SetText("abc")

	te.Update(keyMsg("ctrl+s"))
	chooser := te.ActiveDialog()
	require.NotNil(t, chooser)
	assert.Equal(t, dialog.SaveTitle, chooser.Title())
	assert.Equal(t, "Untitled document", chooser.CurrentName())

	respond(t, te.Editor, dialog.ResponseAccept, "/tmp/out.txt")

	data, err := afero.ReadFile(te.fs, "/tmp/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
	assert.Equal(t, "abc", text(t, te.Editor))
	assert.True(t, chooser.Destroyed())
	assert.Nil(t, te.ActiveDialog())
	assert.Empty(t, te.diag.String())
}

func TestEditor_SaveRoundTrip(t *testing.T) {
	for _, s := range []string{"", "abc", "multi\nline\n", "ünïcödé ✓"} {
		te := newTestEditor(t)
		te.SetText(s)
		te.Click("btnSave")
		respond(t, te.Editor, dialog.ResponseAccept, "/docs/file.txt")

		got, err := files.NewStore(te.fs).ReadText("/docs/file.txt")
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestEditor_SaveCancelled(t *testing.T) {
	for _, response := range []dialog.Response{dialog.ResponseCancel, dialog.ResponseDeleteEvent} {
		t.Run(response.String(), func(t *testing.T) {
			te := newTestEditor(t)
			te.SetText("x")

			te.Click("btnSave")
			chooser := respond(t, te.Editor, response, "")

			assert.Equal(t, "x", text(t, te.Editor))
			assert.True(t, chooser.Destroyed())
			assert.Nil(t, te.ActiveDialog())

			entries, err := afero.ReadDir(te.fs, "/")
			require.NoError(t, err)
			for _, entry := range entries {
				assert.Equal(t, "app", entry.Name(), "nothing but the layout should exist")
			}
		})
	}
}

func TestEditor_SaveFailureIsReported(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/app/gui.yaml", shippedLayout(t), 0644))

	te := buildTestEditor(t, afero.NewReadOnlyFs(mem))
	te.SetText("abc")

	te.Click("btnSave")
	respond(t, te.Editor, dialog.ResponseAccept, "/tmp/out.txt")

	assert.Contains(t, te.diag.String(), "Error saving:")
	assert.Equal(t, "abc", text(t, te.Editor))
	assert.Nil(t, te.ActiveDialog(), "no dialog is shown for a failed save")

	cmd := te.saveTo("/tmp/out.txt")
	require.NotNil(t, cmd)
	status, ok := cmd().(StatusMsg)
	require.True(t, ok)
	assert.Contains(t, string(status), "Error saving:")
	assert.Contains(t, string(status), "/tmp")
}

func TestEditor_SaveReportsStatus(t *testing.T) {
	te := newTestEditor(t)
	te.SetText("abc")

	cmd := te.saveTo("/tmp/out.txt")
	require.NotNil(t, cmd)
	assert.Equal(t, StatusMsg("Saved 3 B to /tmp/out.txt"), cmd())
}

func TestEditor_OpenClicked(t *testing.T) {
	t.Run("accepted path clears the buffer", func(t *testing.T) {
		te := newTestEditor(t)
		te.SetText("hello")

		te.Update(keyMsg("ctrl+o"))
		chooser := te.ActiveDialog()
		require.NotNil(t, chooser)
		assert.Equal(t, dialog.OpenTitle, chooser.Title())

		respond(t, te.Editor, dialog.ResponseAccept, "/tmp/notes.txt")
		assert.Equal(t, "", text(t, te.Editor))
		assert.True(t, chooser.Destroyed())
	})

	t.Run("cancel leaves the buffer", func(t *testing.T) {
		te := newTestEditor(t)
		te.SetText("hello")

		te.Click("btnOpen")
		chooser := respond(t, te.Editor, dialog.ResponseCancel, "")

		assert.Equal(t, "hello", text(t, te.Editor))
		assert.True(t, chooser.Destroyed())
	})
}

func TestEditor_ChooserIsModal(t *testing.T) {
	te := newTestEditor(t)
	te.SetText("keep me")

	te.Click("btnSave")
	chooser := te.ActiveDialog()
	require.NotNil(t, chooser)

	te.Update(keyMsg("ctrl+n"))
	te.Update(keyMsg("ctrl+o"))
	assert.Equal(t, "keep me", text(t, te.Editor))
	assert.Same(t, chooser, te.ActiveDialog())

	// A second click cannot stack another chooser
	assert.Nil(t, te.Click("btnOpen"))
	assert.Same(t, chooser, te.ActiveDialog())

	// Esc goes to the chooser and produces its cancel response
	cmd := te.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(dialog.ResponseMsg)
	require.True(t, ok)
	assert.Equal(t, dialog.ResponseCancel, msg.Response)

	te.Update(msg)
	assert.Nil(t, te.ActiveDialog())
	assert.Equal(t, "keep me", text(t, te.Editor))
}

func TestEditor_IgnoresStaleResponse(t *testing.T) {
	te := newTestEditor(t)
	te.SetText("abc")

	te.Click("btnSave")
	chooser := te.ActiveDialog()
	te.Update(dialog.ResponseMsg{ID: chooser.ID() + 1000, Response: dialog.ResponseAccept, Filename: "/tmp/a.txt"})
	assert.Same(t, chooser, te.ActiveDialog())
	assert.False(t, chooser.Destroyed())

	respond(t, te.Editor, dialog.ResponseCancel, "")
	assert.Nil(t, te.Update(dialog.ResponseMsg{ID: chooser.ID(), Response: dialog.ResponseAccept, Filename: "/tmp/a.txt"}))

	exists, err := afero.Exists(te.fs, "/tmp/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEditor_DestroyQuits(t *testing.T) {
	te := newTestEditor(t)
	te.Click("btnSave")
	chooser := te.ActiveDialog()

	cmd, ok := te.builder.Emit(WindowID, "destroy")
	require.True(t, ok)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, chooser.Destroyed(), "an open chooser is released on destroy")
	assert.Nil(t, te.ActiveDialog())

	cmd = te.Update(keyMsg("ctrl+q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEditor_FocusCycle(t *testing.T) {
	te := newTestEditor(t)
	te.Init()

	var order []string
	for i := 0; i < 5; i++ {
		te.Update(keyMsg("tab"))
		order = append(order, te.FocusedButton())
	}
	assert.Equal(t, []string{"btnNew", "btnOpen", "btnSave", "btnCopy", ""}, order)

	te.Update(keyMsg("shift+tab"))
	assert.Equal(t, "btnCopy", te.FocusedButton())

	// Typing while a button is focused does not reach the buffer
	te.Update(keyMsg("x"))
	assert.Equal(t, "", text(t, te.Editor))
}

func TestEditor_Copy(t *testing.T) {
	te := newTestEditor(t)
	te.SetText("copy me")

	cmd := te.Update(keyMsg("ctrl+y"))
	assert.Equal(t, []string{"copy me"}, te.clipboard)
	require.NotNil(t, cmd)
	assert.Equal(t, StatusMsg("Copied buffer to clipboard"), cmd())

	te.clipboard = nil
	te.Editor.clipboard = func(string) error { return errors.New("no clipboard utility") }
	assert.Nil(t, te.Click("btnCopy"))
	assert.Contains(t, te.diag.String(), "Error copying: no clipboard utility")
}

func TestEditor_WindowAndView(t *testing.T) {
	te := newTestEditor(t)
	te.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Equal(t, "Simple Text Editor", te.Window().Title())
	w, h := te.Window().Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 30, h)

	view := te.View()
	for _, want := range []string{"Simple Text Editor", "New", "Open", "Save", "ctrl+s"} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, "_New")

	te.Click("btnOpen")
	assert.Contains(t, te.View(), dialog.OpenTitle)

	assert.Contains(t, te.HelpView(), "ctrl+s save")
	assert.Contains(t, te.HelpView(), "ctrl+q quit")
}

// handlersOnly builds an editor and returns nothing but its signal handlers
//
//go:noinline
func handlersOnly(t *testing.T) map[string]layout.Handler {
	te := newTestEditor(t)
	return te.signalHandlers()
}

func TestEditor_HandlersDoNotKeepEditorAlive(t *testing.T) {
	handlers := handlersOnly(t)
	require.Contains(t, handlers, HandlerNewClicked)
	require.Contains(t, handlers, HandlerWindowDestroy)

	for i := 0; i < 5; i++ {
		runtime.GC()
	}

	assert.Nil(t, handlers[HandlerNewClicked](nil))
	assert.Nil(t, handlers[HandlerWindowDestroy](nil), "a collected editor must not quit the program")
	assert.Nil(t, handlers[HandlerSaveClicked](nil))
}
