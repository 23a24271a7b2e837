package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tessro/lilt/internal/core"
)

// stdout is where command output goes; tests swap it.
var stdout io.Writer = os.Stdout

// Table provides a simple table formatter.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTable creates a new table on stdout with the given headers.
func NewTable(headers ...string) *Table {
	return NewTableWriter(stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
	if len(headers) > 0 {
		_, _ = t.w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	}
	return t
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output.
func (t *Table) Flush() {
	_ = t.w.Flush()
}

// printJSON writes v as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printf writes to stdout.
func printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(stdout, format, args...)
}

// TruncateString truncates a string to maxLen runes, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// humanSince renders t relative to now, e.g. "3 days ago".
func humanSince(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// chartMovement describes a rank change for table output.
func chartMovement(item core.ChartItem) string {
	delta, ok := item.Movement()
	switch {
	case !ok:
		return "new"
	case delta > 0:
		return fmt.Sprintf("+%d", delta)
	case delta < 0:
		return fmt.Sprintf("%d", delta)
	}
	return "="
}

// optionalInt renders a nullable chart field.
func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// weeksLabel renders weeks on chart as an ordinal ("3rd week").
func weeksLabel(v *int) string {
	if v == nil || *v <= 0 {
		return "-"
	}
	return humanize.Ordinal(*v) + " week"
}
