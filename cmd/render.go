package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KaramelBytes/scatterdiff/internal/compare"
	cfgpkg "github.com/KaramelBytes/scatterdiff/internal/config"
	"github.com/KaramelBytes/scatterdiff/internal/dataset"
	"github.com/KaramelBytes/scatterdiff/internal/prediction"
)

// styles is the terminal rendition of the configured palette.
type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	dim      lipgloss.Style
	added    lipgloss.Style
	removed  lipgloss.Style
	changed  lipgloss.Style
	brushing lipgloss.Style
	selected lipgloss.Style
	match    lipgloss.Style
	ipns     lipgloss.Style
	isnp     lipgloss.Style
}

func newStyles(p cfgpkg.Palette) styles {
	cell := func(bg string) lipgloss.Style {
		return lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color("#000000"))
	}
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Underline(true),
		header:   lipgloss.NewStyle().Bold(true),
		dim:      lipgloss.NewStyle().Faint(true),
		added:    cell(p.Added),
		removed:  cell(p.Removed),
		changed:  cell(p.Changed),
		brushing: fg(p.Brushing),
		selected: fg(p.Selected),
		match:    fg(p.Match),
		ipns:     fg(p.IPNS),
		isnp:     fg(p.ISNP),
	}
}

func (s styles) cell(d compare.CellDiff) lipgloss.Style {
	switch d {
	case compare.RowAdded:
		return s.added
	case compare.RowRemoved:
		return s.removed
	case compare.Changed:
		return s.changed
	default:
		return lipgloss.NewStyle()
	}
}

func (s styles) mark(m prediction.Mark) lipgloss.Style {
	switch m {
	case prediction.MarkMatch:
		return s.match
	case prediction.MarkIPNS:
		return s.ipns
	case prediction.MarkISNP:
		return s.isnp
	default:
		return lipgloss.NewStyle()
	}
}

// rowMarker is the one-character gutter shown before each table row.
func rowMarker(d compare.CellDiff) string {
	switch d {
	case compare.RowAdded:
		return "+"
	case compare.RowRemoved:
		return "-"
	case compare.Changed:
		return "~"
	default:
		return " "
	}
}

const maxCellWidth = 24

// renderTable writes the classified dataset as an aligned table, coloring
// each cell by its classification. limit caps the rows shown (0 = all);
// onlyDiff hides unchanged rows.
func renderTable(w io.Writer, c *compare.Classification, st styles, limit int, onlyDiff bool) {
	d := c.Dataset()
	if d == nil {
		return
	}
	cols := d.Columns()
	var rows []int
	for i := 0; i < d.Len(); i++ {
		if onlyDiff && c.Row(i).Status == compare.Unchanged {
			continue
		}
		rows = append(rows, i)
	}
	hidden := 0
	if limit > 0 && len(rows) > limit {
		hidden = len(rows) - limit
		rows = rows[:limit]
	}

	widths := make([]int, len(cols))
	text := make([][]string, len(rows))
	for j, col := range cols {
		h := col.DisplayName()
		if col.Unit != "" && !strings.Contains(h, col.Unit) {
			h = fmt.Sprintf("%s [%s]", h, col.Unit)
		}
		widths[j] = lipgloss.Width(truncate(h))
	}
	for k, i := range rows {
		r, _ := d.Row(i)
		text[k] = make([]string, len(cols))
		for j, col := range cols {
			v, ok := r.Value(col.ID)
			s := ""
			if ok {
				s = truncate(v.String())
			}
			text[k][j] = s
			if n := lipgloss.Width(s); n > widths[j] {
				widths[j] = n
			}
		}
	}

	var b strings.Builder
	b.WriteString("  ")
	for j, col := range cols {
		if j > 0 {
			b.WriteString(" │ ")
		}
		h := col.DisplayName()
		if col.Unit != "" && !strings.Contains(h, col.Unit) {
			h = fmt.Sprintf("%s [%s]", h, col.Unit)
		}
		b.WriteString(st.header.Render(pad(truncate(h), widths[j])))
	}
	b.WriteString("\n")
	for k, i := range rows {
		b.WriteString(rowMarker(c.Row(i).Status))
		b.WriteString(" ")
		for j, col := range cols {
			if j > 0 {
				b.WriteString(" │ ")
			}
			b.WriteString(st.cell(c.Cell(i, col.ID)).Render(pad(text[k][j], widths[j])))
		}
		b.WriteString("\n")
	}
	if hidden > 0 {
		b.WriteString(st.dim.Render(fmt.Sprintf("  … %d more rows", hidden)))
		b.WriteString("\n")
	}
	fmt.Fprint(w, b.String())
}

func truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > maxCellWidth {
		return string(r[:maxCellWidth-1]) + "…"
	}
	return s
}

func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func renderSummary(w io.Writer, label string, s compare.Summary) {
	fmt.Fprintf(w, "%s: %d rows, %d added, %d removed, %d changed (%d cells), %d unchanged\n",
		label, s.Rows, s.Added, s.Removed, s.ChangedRows, s.ChangedCells, s.Unchanged)
}

// labelOf renders the label of row i, or "#i" when it has none.
func labelOf(d *dataset.Dataset, i int) string {
	if v, ok := d.Label(i); ok {
		return v.String()
	}
	return fmt.Sprintf("#%d", i)
}
