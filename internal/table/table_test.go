package table

import (
	"strings"
	"testing"

	"github.com/tuanemuy/local-task/internal/textwidth"
)

func newTestTable() *Table {
	return &Table{
		Columns: []Column{
			{Header: "ID", Min: 2},
			{Header: "NAME", Min: 4},
			{Header: "STATUS", Min: 6},
		},
		Empty: "nothing found",
	}
}

func TestRenderEmitsSingleLineForZeroRows(t *testing.T) {
	out := newTestTable().Render(nil)
	if out != "nothing found\n" {
		t.Fatalf("expected single empty line, got %q", out)
	}
}

func TestRenderLineCount(t *testing.T) {
	tbl := newTestTable()
	for n := 1; n <= 5; n++ {
		rows := make([][]string, 0, n)
		for i := 0; i < n; i++ {
			rows = append(rows, []string{"1", "task", "wip"})
		}
		out := tbl.Render(rows)
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		if len(lines) != n+2 {
			t.Fatalf("expected %d lines for %d rows, got %d:\n%s", n+2, n, len(lines), out)
		}
	}
}

func TestRenderAlignsSeparators(t *testing.T) {
	tbl := newTestTable()
	rows := [][]string{
		{"1", "日本語のタスク", "wip"},
		{"12", "short", "done"},
		{"345", "", "wip"},
	}
	out := tbl.Render(rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Byte offsets differ across lines with multi-byte runes, so alignment
	// is checked visually: the separator positions of each line, measured
	// in columns, must match the header's.
	sepCols := func(line, sep string) []int {
		var pos []int
		col := 0
		rest := line
		for {
			i := strings.Index(rest, sep)
			if i < 0 {
				return pos
			}
			pos = append(pos, col+textwidth.Width(rest[:i]))
			col += textwidth.Width(rest[:i]) + len(sep)
			rest = rest[i+len(sep):]
		}
	}

	head := sepCols(lines[0], " | ")
	if len(head) != 2 {
		t.Fatalf("expected 2 separators in header, got %d: %q", len(head), lines[0])
	}
	rule := sepCols(lines[1], "-+-")
	for i := range head {
		if rule[i] != head[i] {
			t.Fatalf("rule junction %d at col %d, header separator at col %d", i, rule[i], head[i])
		}
	}
	for _, line := range lines[2:] {
		cols := sepCols(line, " | ")
		if len(cols) != len(head) {
			t.Fatalf("expected %d separators, got %d: %q", len(head), len(cols), line)
		}
		for i := range head {
			if cols[i] != head[i] {
				t.Fatalf("separator %d at col %d, want %d: %q", i, cols[i], head[i], line)
			}
		}
	}
}

func TestRenderHonorsMinimumWidths(t *testing.T) {
	tbl := &Table{Columns: []Column{{Header: "ID", Min: 6}}}
	out := tbl.Render([][]string{{"1"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[1] != "------" {
		t.Fatalf("expected rule of width 6, got %q", lines[1])
	}
	if lines[2] != "1     " {
		t.Fatalf("expected padded cell, got %q", lines[2])
	}
}

func TestRenderClampsAndTruncates(t *testing.T) {
	tbl := &Table{Columns: []Column{{Header: "NAME", Min: 4, Max: 8}}}
	out := tbl.Render([][]string{{"a very long task name"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[1] != "--------" {
		t.Fatalf("expected rule clamped to 8, got %q", lines[1])
	}
	if lines[2] != "a ver..." {
		t.Fatalf("expected truncated cell, got %q", lines[2])
	}
}

func TestRenderTruncatesOverlongHeader(t *testing.T) {
	tbl := &Table{Columns: []Column{{Header: "IDENTIFIER", Min: 2, Max: 6}}}
	out := tbl.Render([][]string{{"1"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "IDE..." {
		t.Fatalf("expected truncated header, got %q", lines[0])
	}
	if lines[1] != "------" {
		t.Fatalf("expected rule clamped to 6, got %q", lines[1])
	}
	if lines[2] != "1     " {
		t.Fatalf("expected padded cell, got %q", lines[2])
	}
}

func TestRenderAbsentValuesAreEmpty(t *testing.T) {
	tbl := newTestTable()
	out := tbl.Render([][]string{{"1"}})
	if strings.Contains(out, "null") {
		t.Fatalf("absent values must render empty, got %q", out)
	}
}
