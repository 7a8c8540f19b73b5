package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PanelRow is one line of the scan table
type PanelRow struct {
	Address  string
	DIP      int
	Nickname string
	Extra    string // e.g. geometry, last buttons
}

// RenderPanelTable renders discovered panels as an aligned table. An empty
// slice renders a short notice instead.
func RenderPanelTable(rows []PanelRow, width int) string {
	width = clampWidth(width)

	if len(rows) == 0 {
		return TableMutedStyle.Render("  No panels answered.")
	}

	headers := []string{"ADDRESS", "DIP", "NICKNAME", ""}
	cells := make([][]string, len(rows))
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for i, r := range rows {
		nick := r.Nickname
		if nick == "" {
			nick = "-"
		}
		cells[i] = []string{r.Address, strconv.Itoa(r.DIP), nick, r.Extra}
		for j, c := range cells[i] {
			if n := lipgloss.Width(c); n > widths[j] {
				widths[j] = n
			}
		}
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(formatRow(headers, widths)))
	b.WriteString("\n")
	b.WriteString(RenderDivider(min(width-4, rowWidth(widths))))
	for i, row := range cells {
		b.WriteString("\n")
		style := TableCellStyle
		if rows[i].Nickname == "" {
			style = TableMutedStyle
		}
		b.WriteString(style.Render(formatRow(row, widths)))
	}
	b.WriteString("\n")
	b.WriteString(TableMutedStyle.Render(fmt.Sprintf("  %d panel(s)", len(rows))))
	return b.String()
}

func formatRow(cols []string, widths []int) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
	}
	return "  " + strings.TrimRight(strings.Join(parts, "   "), " ")
}

func rowWidth(widths []int) int {
	total := 2
	for _, w := range widths {
		total += w + 3
	}
	return total - 3
}
