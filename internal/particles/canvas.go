package particles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// Canvas is the paint surface a Field draws onto.
type Canvas interface {
	Clear()
	// DrawGlyph paints glyph centered at (x, y) in canvas pixels.
	DrawGlyph(glyph string, x, y, size int)
}

// Terminal cells are mapped onto canvas pixels at this ratio, roughly the
// aspect of a monospace cell.
const (
	CellWidth  = 10
	CellHeight = 20
)

type cell struct {
	glyph string
	color colorRGB
	// cont marks the right half of a double-width glyph.
	cont bool
	text bool
}

// Grid is a Canvas backed by a terminal cell grid.
type Grid struct {
	cols    int
	rows    int
	cells   []cell
	profile termenv.Profile
}

// NewGrid returns a grid of cols×rows terminal cells.
func NewGrid(cols, rows int) *Grid {
	g := &Grid{profile: lipgloss.ColorProfile()}
	g.Resize(cols, rows)
	return g
}

// Resize changes the grid dimensions and clears it.
func (g *Grid) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g.cols, g.rows = cols, rows
	g.cells = make([]cell, cols*rows)
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

// Clear blanks every cell.
func (g *Grid) Clear() {
	clear(g.cells)
}

// DrawGlyph implements Canvas. Glyphs falling outside the grid are skipped.
func (g *Grid) DrawGlyph(glyph string, x, y, size int) {
	if glyph == "" {
		return
	}
	w := runewidth.StringWidth(glyph)
	if w < 1 {
		w = 1
	}
	col := x/CellWidth - (w-1)/2
	row := y / CellHeight
	if x < 0 || y < 0 || row >= g.rows || col < 0 || col+w > g.cols {
		return
	}
	g.put(col, row, w, cell{glyph: glyph, color: glyphColor(size)})
}

func (g *Grid) put(col, row, w int, c cell) {
	base := row * g.cols
	// Overwriting half of a wide glyph leaves the other half dangling.
	if g.cells[base+col].cont && col > 0 {
		g.cells[base+col-1] = cell{}
	}
	if end := col + w; end < g.cols && g.cells[base+end].cont {
		g.cells[base+end] = cell{}
	}
	g.cells[base+col] = c
	for i := 1; i < w; i++ {
		g.cells[base+col+i] = cell{cont: true, color: c.color, text: c.text}
	}
}

// Stamp overlays text at a cell position, clipping at the right edge.
func (g *Grid) Stamp(col, row int, text string) {
	if row < 0 || row >= g.rows {
		return
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w < 1 {
			continue
		}
		if col >= 0 && col+w <= g.cols {
			g.put(col, row, w, cell{glyph: string(r), color: textColor, text: true})
		}
		col += w
	}
}

// StampCentered overlays text horizontally centered on row.
func (g *Grid) StampCentered(row int, text string) {
	g.Stamp((g.cols-runewidth.StringWidth(text))/2, row, text)
}

// Glyph returns the glyph at a cell, or "" if the cell is empty or the right
// half of a wide glyph.
func (g *Grid) Glyph(col, row int) string {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return ""
	}
	return g.cells[row*g.cols+col].glyph
}

// View renders the first rows of the grid as coloured terminal lines.
func (g *Grid) View(rows int) string {
	if rows > g.rows {
		rows = g.rows
	}
	if rows <= 0 {
		return ""
	}
	var sb strings.Builder
	ansi := pen{profile: g.profile}
	for row := range rows {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range g.cells[row*g.cols : (row+1)*g.cols] {
			switch {
			case c.cont:
			case c.glyph == "":
				sb.WriteByte(' ')
			default:
				ansi.set(&sb, c.color)
				sb.WriteString(c.glyph)
			}
		}
		ansi.reset(&sb)
	}
	return sb.String()
}

// CellCenter returns the canvas-pixel center of a terminal cell.
func CellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * CellWidth, (float64(row) + 0.5) * CellHeight
}

// RowsFor returns how many terminal rows a canvas of the given pixel height
// spans.
func RowsFor(height float64) int {
	return int((height + CellHeight - 1) / CellHeight)
}
