package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// colDef defines a table column. At most one column should be flex; it
// absorbs all shrinking when the terminal is too narrow.
type colDef struct {
	header string
	flex   bool
	min    int // minimum width for the flex column (0 = header length)
}

// table renders rows with a cursor highlight and a scrolling viewport.
type table struct {
	cols     []colDef
	rows     [][]string
	widths   []int // natural (content-based) widths
	maxWidth int   // available terminal width (0 = unlimited)
}

const colGap = "  "
const colGapWidth = 2

func newTable(maxWidth int, cols ...colDef) *table {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c.header)
		if c.min <= 0 {
			cols[i].min = len(c.header)
		}
	}
	return &table{cols: cols, widths: widths, maxWidth: maxWidth}
}

func (t *table) addRow(cells ...string) {
	row := make([]string, len(t.cols))
	copy(row, cells)
	for i, c := range row {
		if w := visibleLen(c); w > t.widths[i] {
			t.widths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// allocWidths returns per-column widths that fit the terminal. Only the
// flex column shrinks; fixed columns always keep their natural width.
func (t *table) allocWidths() []int {
	alloc := make([]int, len(t.cols))
	copy(alloc, t.widths)
	if t.maxWidth <= 0 {
		return alloc
	}

	total := 0
	for _, w := range alloc {
		total += w
	}
	if len(t.cols) > 1 {
		total += (len(t.cols) - 1) * colGapWidth
	}
	excess := total - t.maxWidth
	if excess <= 0 {
		return alloc
	}

	for i, c := range t.cols {
		if !c.flex {
			continue
		}
		alloc[i] -= excess
		if alloc[i] < c.min {
			alloc[i] = c.min
		}
		break
	}
	return alloc
}

var (
	headerText     = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	separatorStyle = lipgloss.NewStyle().Foreground(colorMuted)
	scrollStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	emptyStyle     = lipgloss.NewStyle().Foreground(colorMuted)
)

// render renders the table with cursor highlight and a row limit.
// maxRows limits the number of visible data rows (0 = unlimited). When rows
// exceed maxRows, a viewport centered on the cursor is shown with scroll
// indicators.
func (t *table) render(cursor, maxRows int) string {
	if len(t.rows) == 0 {
		return emptyStyle.Render("  (empty)")
	}

	alloc := t.allocWidths()
	total := len(t.rows)

	start, end := 0, total
	if maxRows > 0 && total > maxRows {
		slots := maxRows - 2 // room for the scroll indicators
		if slots < 1 {
			slots = 1
		}
		start = cursor - slots/2
		if start < 0 {
			start = 0
		}
		end = start + slots
		if end > total {
			end = total
			start = end - slots
			if start < 0 {
				start = 0
			}
		}
	}

	var b strings.Builder

	// Header line
	for i, c := range t.cols {
		b.WriteString(headerText.Render(fmt.Sprintf("%-*s", alloc[i], c.header)))
		if i < len(t.cols)-1 {
			b.WriteString(colGap)
		}
	}
	b.WriteString("\n")

	// Separator
	for i, w := range alloc {
		b.WriteString(separatorStyle.Render(strings.Repeat("─", w)))
		if i < len(alloc)-1 {
			b.WriteString(colGap)
		}
	}
	b.WriteString("\n")

	if start > 0 {
		b.WriteString(scrollStyle.Render(fmt.Sprintf("  ↑ %d more", start)))
		b.WriteString("\n")
	}

	for ri := start; ri < end; ri++ {
		line := renderRow(t.rows[ri], alloc)
		if ri == cursor {
			line = selectedRow.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if end < total {
		b.WriteString(scrollStyle.Render(fmt.Sprintf("  ↓ %d more", total-end)))
		b.WriteString("\n")
	}

	return b.String()
}

func renderRow(row []string, alloc []int) string {
	var line strings.Builder
	for i, c := range row {
		w := alloc[i]
		if visibleLen(c) > w {
			c = truncateAnsi(c, w)
		}
		line.WriteString(c)
		if pad := w - visibleLen(c); pad > 0 {
			line.WriteString(strings.Repeat(" ", pad))
		}
		if i < len(row)-1 {
			line.WriteString(colGap)
		}
	}
	return line.String()
}

// visibleLen returns the visible length of s, ignoring ANSI escape sequences.
func visibleLen(s string) int {
	return len(stripAnsi(s))
}

// stripAnsi removes ANSI escape sequences for width calculation.
func stripAnsi(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// truncateAnsi truncates s to maxVisible visible characters, preserving ANSI
// escapes. A trailing reset prevents style bleed from truncated styled text.
func truncateAnsi(s string, maxVisible int) string {
	if maxVisible <= 0 {
		return ""
	}
	if visibleLen(s) <= maxVisible {
		return s
	}

	target := maxVisible
	useEllipsis := maxVisible > 3
	if useEllipsis {
		target = maxVisible - 3
	}

	var b strings.Builder
	visible := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			b.WriteRune(r)
			continue
		}
		if inEsc {
			b.WriteRune(r)
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
			continue
		}
		if visible >= target {
			break
		}
		b.WriteRune(r)
		visible++
	}
	if useEllipsis {
		b.WriteString("...")
	}
	b.WriteString("\x1b[0m")
	return b.String()
}
