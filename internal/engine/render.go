package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/rshade/loandash/internal/cli/pagination"
)

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// yamlIndent is the indentation used for yaml output.
const yamlIndent = 2

// RenderTable writes t as an aligned plain-text table.
// A cell spanning several columns is written as the row's last cell so it does
// not widen the columns it covers.
func RenderTable(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	headers := make([]string, len(t.Columns))
	dashes := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = strings.ToUpper(col)
		dashes[i] = strings.Repeat("-", len([]rune(col)))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(dashes, "\t")); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	for _, row := range t.Rows {
		if _, err := fmt.Fprintln(tw, formatRow(row)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	return tw.Flush()
}

func formatRow(row Row) string {
	var b strings.Builder
	for i, cell := range row.Cells {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(cell.Text)
		if cell.Span > 1 && i < len(row.Cells)-1 {
			b.WriteString(strings.Repeat("\t", cell.Span-1))
		}
	}
	return b.String()
}

// RenderControls writes page controls on one line, e.g. "[Previous] [1] [*2*] [3] [Next]".
// Nothing is written when there are no controls.
func RenderControls(w io.Writer, c pagination.Controls) error {
	if len(c.Buttons) == 0 {
		return nil
	}

	parts := make([]string, 0, len(c.Buttons))
	for _, b := range c.Buttons {
		label := b.Label
		if b.Active {
			label = "*" + label + "*"
		}
		parts = append(parts, "["+label+"]")
	}

	if _, err := fmt.Fprintf(w, "%s  (page %d of %d)\n", strings.Join(parts, " "), c.CurrentPage, c.TotalPages); err != nil {
		return fmt.Errorf("writing controls: %w", err)
	}
	return nil
}

// RenderJSON writes v as indented JSON.
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// RenderYAML writes v as YAML.
func RenderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
