package report

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))
)

// RenderTable draws rows, sorted by start, as a bordered terminal table.
func RenderTable(rows []Row) string {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	Sort(sorted)

	cells := make([][]string, len(sorted))
	for i, r := range sorted {
		cells[i] = r.Fields()
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(Header...).
		Rows(cells...).
		StyleFunc(styleFunc(sorted))
	return t.Render()
}

// styleFunc picks cell styles for rows already in display order. Homology
// cells of rows without a hit are muted.
func styleFunc(sorted []Row) table.StyleFunc {
	return func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if col >= 3 && row >= 0 && row < len(sorted) && !sorted[row].Hit.Found {
			return missingStyle
		}
		return cellStyle
	}
}
