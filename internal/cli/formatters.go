package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how a command writes its result
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// OutputFormats lists the accepted values of the -o flag
var OutputFormats = []OutputFormat{FormatText, FormatJSON, FormatYAML}

// TableFormatter writes aligned columns with a rule under the header
type TableFormatter struct {
	writer *tabwriter.Writer
}

// NewTableFormatter creates a table writing to w
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

// Header writes the column names and a rule as wide as each name
func (t *TableFormatter) Header(columns ...string) {
	rules := make([]string, len(columns))
	for i, col := range columns {
		rules[i] = strings.Repeat("-", ansi.PrintableRuneWidth(col))
	}
	t.Row(columns...)
	t.Row(rules...)
}

// Row writes one table row
func (t *TableFormatter) Row(values ...string) {
	fmt.Fprintln(t.writer, strings.Join(values, "\t"))
}

// Flush aligns and writes the buffered rows
func (t *TableFormatter) Flush() {
	t.writer.Flush()
}

// OutputResults writes data as JSON or YAML. Text output falls back to the
// value's default formatting; commands normally render text themselves.
func OutputResults(w io.Writer, format string, data any) error {
	switch OutputFormat(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()

	case FormatText:
		_, err := fmt.Fprintln(w, data)
		return err
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// TruncateString shortens s to maxLen columns, marking the cut with "..."
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if ansi.PrintableRuneWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return truncate.String(s, uint(maxLen))
	}
	return truncate.StringWithTail(s, uint(maxLen), "...")
}
