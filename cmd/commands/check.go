package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/textpad/internal/cli"
	"github.com/pluqqy/textpad/pkg/files"
	"github.com/pluqqy/textpad/pkg/layout"
	"github.com/pluqqy/textpad/pkg/tui"
)

// CheckResult is the output of the check command
type CheckResult struct {
	Layout  string        `json:"layout" yaml:"layout"`
	Objects []CheckObject `json:"objects" yaml:"objects"`
	Count   int           `json:"count" yaml:"count"`
	// Required handlers no signal is bound to
	Unbound []string `json:"unbound,omitempty" yaml:"unbound,omitempty"`
	// Handlers the layout names that the editor does not provide
	Unknown []string `json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

// CheckObject describes one widget of the layout
type CheckObject struct {
	ID      string   `json:"id" yaml:"id"`
	Class   string   `json:"class" yaml:"class"`
	Label   string   `json:"label,omitempty" yaml:"label,omitempty"`
	Accel   string   `json:"accel,omitempty" yaml:"accel,omitempty"`
	Signals []string `json:"signals,omitempty" yaml:"signals,omitempty"`
}

// OK reports whether the editor can run the layout without warnings
func (r CheckResult) OK() bool {
	return len(r.Unbound) == 0 && len(r.Unknown) == 0
}

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [layout]",
		Short: "Validate an interface description",
		Long: `Load an interface description and report its widgets and signal bindings.

The command fails when the description cannot be parsed, when it lacks the
main window or the text view, or when its handlers do not match the ones the
editor provides.

Examples:
  # Check gui.yaml in the current directory
  textpad check

  # Check another file and print JSON
  textpad check layouts/editor.yaml -o json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			return cli.ValidateOutputFormat(format)
		},
		RunE: runCheck,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text, json, yaml)")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	path := settings.Layout
	if len(args) > 0 {
		path = args[0]
	}

	store := files.NewStore(nil)
	if err := cli.ValidateFilePath(store.Fs(), path); err != nil {
		return err
	}

	builder, err := layout.Load(store, path)
	if err != nil {
		return err
	}
	if _, err := builder.Window(tui.WindowID); err != nil {
		return err
	}
	if _, err := builder.TextView(tui.TextViewID); err != nil {
		return err
	}

	result := inspectLayout(path, builder)

	outputFormat, _ := cmd.Flags().GetString("output")
	switch outputFormat {
	case "json", "yaml":
		if err := cli.OutputResults(cmd.OutOrStdout(), outputFormat, result); err != nil {
			return err
		}
	default:
		outputCheckText(cmd.OutOrStdout(), result)
	}

	if !result.OK() {
		return fmt.Errorf("%s: %d unbound and %d unknown handler(s)", path, len(result.Unbound), len(result.Unknown))
	}
	return nil
}

func inspectLayout(path string, builder *layout.Builder) CheckResult {
	result := CheckResult{Layout: path}

	for _, obj := range builder.Objects() {
		item := CheckObject{
			ID:    obj.ID,
			Class: string(obj.Class),
			Label: obj.DisplayLabel(),
			Accel: obj.Accel,
		}
		if obj.Class == layout.ClassWindow {
			item.Label = obj.Title
		}
		for _, sig := range obj.Signals {
			item.Signals = append(item.Signals, sig.Name+" -> "+sig.Handler)
		}
		result.Objects = append(result.Objects, item)
	}
	result.Count = len(result.Objects)

	declared := builder.Handlers()
	for _, name := range tui.RequiredHandlers() {
		if !slices.Contains(declared, name) {
			result.Unbound = append(result.Unbound, name)
		}
	}
	provided := tui.ProvidedHandlers()
	for _, name := range declared {
		if !slices.Contains(provided, name) {
			result.Unknown = append(result.Unknown, name)
		}
	}

	return result
}

func outputCheckText(w io.Writer, result CheckResult) {
	fmt.Fprintf(w, "Layout: %s\n\n", result.Layout)

	table := cli.NewTableFormatter(w)
	table.Header("ID", "CLASS", "LABEL", "ACCEL", "SIGNALS")
	for _, obj := range result.Objects {
		table.Row(
			obj.ID,
			obj.Class,
			cli.TruncateString(obj.Label, 30),
			obj.Accel,
			strings.Join(obj.Signals, ", "),
		)
	}
	table.Flush()

	fmt.Fprintf(w, "\nTotal: %d objects\n", result.Count)

	for _, name := range result.Unbound {
		cli.FprintWarning(w, "no signal is bound to %s", name)
	}
	for _, name := range result.Unknown {
		cli.FprintWarning(w, "could not find signal handler %q", name)
	}
	if result.OK() {
		cli.FprintSuccess(w, "All handlers are bound")
	}
}
