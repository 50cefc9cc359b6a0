package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// ErrAlreadyShown is returned when Show is called a second time
var ErrAlreadyShown = errors.New("window has already been shown")

type appState int

const (
	stateInitialized appState = iota
	stateRunning
	stateDestroyed
)

// StatusMsg sets the text of the status bar
type StatusMsg string

// App is the process-lifetime root. It holds the only strong reference to
// the editor and runs the event loop.
type App struct {
	editor    *Editor
	state     appState
	width     int
	height    int
	statusMsg string
}

// NewApp creates the application root around editor
func NewApp(editor *Editor) *App {
	return &App{
		editor: editor,
		state:  stateInitialized,
	}
}

// Editor returns the editor the app owns
func (a *App) Editor() *Editor {
	return a.editor
}

// Show makes the window visible and runs the event loop until the window is
// destroyed. It can be called once.
func (a *App) Show(ctx context.Context, opts ...tea.ProgramOption) error {
	if a.state != stateInitialized {
		return ErrAlreadyShown
	}
	a.state = stateRunning
	defer func() {
		a.editor.Close()
		a.state = stateDestroyed
	}()

	options := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}, opts...)

	p := tea.NewProgram(a, options...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("event loop failed: %w", err)
	}
	return nil
}

func (a *App) Init() tea.Cmd {
	return a.editor.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Leave room for the help line and the status bar
		return a, a.editor.Update(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 2})

	case StatusMsg:
		a.statusMsg = string(msg)
		return a, nil
	}

	return a, a.editor.Update(msg)
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	content := a.editor.View()
	if a.editor.ActiveDialog() != nil {
		return content
	}

	content = lipgloss.JoinVertical(lipgloss.Left, content, HelpStyle.Render(a.editor.HelpView()))

	if a.statusMsg != "" {
		width := a.width - 2
		if width < 1 {
			width = 1
		}
		status := truncate.StringWithTail(a.statusMsg, uint(width), "…")
		content = lipgloss.JoinVertical(lipgloss.Left, content, StatusStyle.Render(status))
	}

	return content
}
