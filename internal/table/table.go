// Package table renders homogeneous rows as an aligned plain-text table,
// using visual widths so multi-byte content lines up.
package table

import (
	"strings"

	"github.com/tuanemuy/local-task/internal/textwidth"
)

const (
	cellSep     = " | "
	ruleSep     = "-+-"
	ellipsis    = "..."
	defaultNone = "(no rows)"
)

// Column describes one table column. Min is the smallest width the column
// may take regardless of content; Max, when positive, clamps the width and
// overflowing cells (the header included) are truncated.
type Column struct {
	Header string
	Min    int
	Max    int
}

// Table renders rows under a fixed column layout. Empty is the single line
// emitted when there are no rows.
type Table struct {
	Columns []Column
	Empty   string
}

// Render produces the table text: one header line, one separator line and
// one line per row; with zero rows, exactly one Empty line. Rows keep their
// input order. Cells missing from a short row render as empty.
func (t *Table) Render(rows [][]string) string {
	var b strings.Builder
	if len(rows) == 0 {
		empty := t.Empty
		if empty == "" {
			empty = defaultNone
		}
		b.WriteString(empty)
		b.WriteByte('\n')
		return b.String()
	}

	widths := t.widths(rows)

	cells := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		h := c.Header
		if c.Max > 0 {
			h = textwidth.Truncate(h, c.Max, ellipsis)
		}
		cells[i] = textwidth.PadEnd(h, widths[i], " ")
	}
	b.WriteString(strings.Join(cells, cellSep))
	b.WriteByte('\n')

	for i := range t.Columns {
		cells[i] = strings.Repeat("-", widths[i])
	}
	b.WriteString(strings.Join(cells, ruleSep))
	b.WriteByte('\n')

	for _, row := range rows {
		for i := range t.Columns {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			if t.Columns[i].Max > 0 {
				v = textwidth.Truncate(v, t.Columns[i].Max, ellipsis)
			}
			cells[i] = textwidth.PadEnd(v, widths[i], " ")
		}
		b.WriteString(strings.Join(cells, cellSep))
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *Table) widths(rows [][]string) []int {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		w := c.Min
		if hw := textwidth.Width(c.Header); hw > w {
			w = hw
		}
		for _, row := range rows {
			if i >= len(row) {
				continue
			}
			if cw := textwidth.Width(row[i]); cw > w {
				w = cw
			}
		}
		if c.Max > 0 && w > c.Max {
			w = c.Max
		}
		widths[i] = w
	}
	return widths
}
