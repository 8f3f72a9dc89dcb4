package tui

import (
	"github.com/JonMunkholm/tidyflow/internal/preview"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 24
	previewHeight  = 10
)

func newPreviewTable() table.Model {
	t := table.New(table.WithHeight(previewHeight))
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorDim).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("#FFFFFF")).Background(colorAccent)
	t.SetStyles(s)
	return t
}

// setPreview replaces the table contents. Rows are cleared before the
// columns change so no row is ever rendered against a shorter header.
func setPreview(t *table.Model, p *preview.Table) {
	t.SetRows(nil)
	if p == nil {
		t.SetColumns(nil)
		return
	}
	cols, rows := previewRows(*p)
	width := 0
	for _, c := range cols {
		width += c.Width + 2
	}
	t.SetColumns(cols)
	t.SetWidth(width)
	t.SetRows(rows)
}

// previewRows converts a preview into widget columns and rows. Cells are
// rendered with FormatValue; missing keys render empty.
func previewRows(p preview.Table) ([]table.Column, []table.Row) {
	widths := make([]int, len(p.Columns))
	for i, c := range p.Columns {
		widths[i] = lipgloss.Width(c)
	}

	rows := make([]table.Row, 0, len(p.Rows))
	for _, r := range p.Rows {
		row := make(table.Row, len(p.Columns))
		for i, c := range p.Columns {
			row[i] = preview.FormatValue(r[c])
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
		rows = append(rows, row)
	}

	cols := make([]table.Column, len(p.Columns))
	for i, c := range p.Columns {
		cols[i] = table.Column{Title: c, Width: min(max(widths[i], minColumnWidth), maxColumnWidth)}
	}
	return cols, rows
}
