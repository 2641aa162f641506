package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static rows as aligned columns. Cells beyond the header
// count are dropped; short rows are padded.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewTable creates an empty table.
func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) widths() []int {
	w := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		w[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(w) && i < len(row); i++ {
			if cw := lipgloss.Width(row[i]); cw > w[i] {
				w[i] = cw
			}
		}
	}
	return w
}

// View renders the table with styles. An empty table renders as "".
func (t *Table) View(s Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}
	widths := t.widths()
	head := s.Bold.Padding(0, 1)
	cell := s.Body.Padding(0, 1)
	sep := s.Muted.Render("│")

	line := func(style lipgloss.Style, cells []string) string {
		out := make([]string, len(widths))
		for i := range widths {
			v := ""
			if i < len(cells) {
				v = cells[i]
			}
			out[i] = style.Width(widths[i] + 2).Render(v)
		}
		return strings.Join(out, sep)
	}

	total := len(widths) - 1
	for _, w := range widths {
		total += w + 2
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(s.Title.Render(t.Title))
		b.WriteString("\n")
	}
	b.WriteString(line(head, t.Headers))
	b.WriteString("\n")
	b.WriteString(s.RenderDivider(total))
	b.WriteString("\n")
	for _, row := range t.Rows {
		b.WriteString(line(cell, row))
		b.WriteString("\n")
	}
	return b.String()
}

// Plain renders the table space aligned without styling, for piping.
func (t *Table) Plain() string {
	widths := t.widths()
	var b strings.Builder
	write := func(cells []string) {
		for i, w := range widths {
			v := ""
			if i < len(cells) {
				v = cells[i]
			}
			if i == len(widths)-1 {
				b.WriteString(v)
				break
			}
			b.WriteString(v)
			b.WriteString(strings.Repeat(" ", w-lipgloss.Width(v)+2))
		}
		b.WriteString("\n")
	}
	write(t.Headers)
	for _, row := range t.Rows {
		write(row)
	}
	return b.String()
}
