package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pluqqy/textpad/internal/cli"
	"github.com/pluqqy/textpad/internal/config"
	"github.com/pluqqy/textpad/pkg/dialog"
	"github.com/pluqqy/textpad/pkg/files"
	"github.com/pluqqy/textpad/pkg/layout"
	"github.com/pluqqy/textpad/pkg/tui"
)

var (
	configFile string
	quietFlag  bool
)

// NewRootCommand creates the textpad command with its subcommands
func NewRootCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "textpad",
		Short: "A minimal terminal text editor",
		Long: `textpad is a minimal text editor for the terminal. Its window is built
from a declarative interface description (gui.yaml by default) that names the
toolbar buttons and the handlers bound to them.

Examples:
  # Start with gui.yaml from the current directory
  textpad

  # Use another interface description
  textpad --layout ~/layouts/editor.yaml

  # Keep diagnostics out of the terminal
  textpad --log-file /tmp/textpad.log`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runEditor,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default is $XDG_CONFIG_HOME/textpad/config.yaml)")
	flags.StringP("layout", "l", layout.DefaultPath, "Interface description to load")
	flags.String("log-file", "", "Write diagnostics to this file instead of stderr")
	flags.String("start-dir", "", "Folder the file choosers open in")
	flags.Bool("show-hidden", false, "Show hidden files in the file choosers")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress informational output")

	cmd.AddCommand(NewVersionCommand(version))
	cmd.AddCommand(NewCheckCommand())

	return cmd
}

// loadSettings resolves the configuration for cmd and applies the output flags
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}

	settings, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}

	cli.SetGlobalFlags(quietFlag, settings.NoColor)
	return settings, nil
}

func runEditor(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	if settings.LogFile != "" {
		f, err := tea.LogToFile(settings.LogFile, "textpad")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		cli.SetDiagnostics(f)
		defer cli.SetDiagnostics(nil)
	}

	store := files.NewStore(nil)
	if settings.StartDir != "" {
		if err := cli.ValidateDirectoryPath(store.Fs(), settings.StartDir); err != nil {
			return fmt.Errorf("invalid start directory: %w", err)
		}
	}

	editor, err := tui.NewEditor(tui.Options{
		LayoutPath: settings.Layout,
		Store:      store,
		Presenter: &dialog.Presenter{
			StartDir:   settings.StartDir,
			ShowHidden: settings.ShowHidden,
			Fs:         store.Fs(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to build the editor: %w", err)
	}

	return tui.NewApp(editor).Show(cmd.Context())
}
