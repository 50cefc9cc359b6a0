package dialog

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
)

const (
	// OpenTitle is the title of the open chooser
	OpenTitle = "Open File"
	// SaveTitle is the title of the save chooser
	SaveTitle = "Save File"
	// DefaultSaveName is the file name a save chooser proposes
	DefaultSaveName = "Untitled document"
)

// Presenter creates the editor's open and save choosers
type Presenter struct {
	StartDir   string   // Folder shown first; the working directory when empty
	ShowHidden bool     // List dot files
	Fs         afero.Fs // Filesystem for existence checks; the OS when nil
}

// PresentOpenDialog presents an "Open File" chooser with Cancel and Open
// actions over parent
func (p *Presenter) PresentOpenDialog(parent Parent) (*FileChooser, tea.Cmd) {
	c := NewFileChooser(OpenTitle, parent, ActionOpen,
		Button{Label: "_Cancel", Response: ResponseCancel},
		Button{Label: "_Open", Response: ResponseAccept},
	)
	p.configure(c)
	return c, c.Run()
}

// PresentSaveDialog presents a "Save File" chooser with Cancel and Save
// actions over parent. It proposes DefaultSaveName and asks before
// overwriting an existing file.
func (p *Presenter) PresentSaveDialog(parent Parent) (*FileChooser, tea.Cmd) {
	c := NewFileChooser(SaveTitle, parent, ActionSave,
		Button{Label: "_Cancel", Response: ResponseCancel},
		Button{Label: "_Save", Response: ResponseAccept},
	)
	p.configure(c)
	c.SetDoOverwriteConfirmation(true)
	c.SetCurrentName(DefaultSaveName)
	return c, c.Run()
}

func (p *Presenter) configure(c *FileChooser) {
	if p == nil {
		return
	}
	if p.StartDir != "" {
		c.SetCurrentFolder(p.StartDir)
	}
	c.SetShowHidden(p.ShowHidden)
	c.SetFs(p.Fs)
}
