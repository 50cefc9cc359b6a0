package cli

import (
	"fmt"
	"io"
	"os"
)

// Global flags (set from the cmd package)
var (
	quiet   bool
	noColor bool

	// stdout receives success and info lines, diagnostics receives
	// warnings and errors
	stdout      io.Writer = os.Stdout
	diagnostics io.Writer = os.Stderr
)

// SetGlobalFlags sets the global flag values from the cmd package
func SetGlobalFlags(q, nc bool) {
	quiet = q
	noColor = nc
}

// SetOutput redirects success and info lines. A nil writer restores stdout.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	stdout = w
}

// SetDiagnostics redirects warnings and errors. A nil writer restores stderr.
func SetDiagnostics(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	diagnostics = w
}

// Diagnostics returns the current diagnostics writer
func Diagnostics() io.Writer {
	return diagnostics
}

// PrintSuccess prints a success message unless quiet mode is enabled
func PrintSuccess(format string, args ...interface{}) {
	FprintSuccess(stdout, format, args...)
}

// FprintSuccess writes a success line to w unless quiet mode is enabled
func FprintSuccess(w io.Writer, format string, args ...interface{}) {
	if !quiet {
		fprintPrefixed(w, "✓", "OK:", format, args...)
	}
}

// PrintInfo prints an info message unless quiet mode is enabled
func PrintInfo(format string, args ...interface{}) {
	if !quiet {
		fprintPrefixed(stdout, "ℹ", "INFO:", format, args...)
	}
}

// PrintWarning prints a warning message to the diagnostics stream
func PrintWarning(format string, args ...interface{}) {
	FprintWarning(diagnostics, format, args...)
}

// FprintWarning writes a warning line to w
func FprintWarning(w io.Writer, format string, args ...interface{}) {
	fprintPrefixed(w, "⚠", "WARNING:", format, args...)
}

// PrintError prints an error message to the diagnostics stream
func PrintError(format string, args ...interface{}) {
	fprintPrefixed(diagnostics, "✗", "ERROR:", format, args...)
}

// fprintPrefixed writes one line marked with glyph, or with label when
// color is disabled
func fprintPrefixed(w io.Writer, glyph, label, format string, args ...interface{}) {
	prefix := glyph
	if noColor {
		prefix = label
	}
	fmt.Fprintf(w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
