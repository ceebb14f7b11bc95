package tui

import (
	"math"
	"strings"

	"github.com/MKhiriev/sticky-chain/internal/viewport"
	"github.com/MKhiriev/sticky-chain/models"
	"github.com/charmbracelet/lipgloss"
)

// One terminal cell covers cellWidth x cellHeight canvas units, so notes
// keep their proportions across terminals with different fonts.
const (
	cellWidth  = 10.0
	cellHeight = 20.0

	headerRows = 1
	footerRows = 2

	labelWidth    = 18
	minLabelWidth = 3
	maxLabelWidth = 48
)

type cellPos struct {
	col, row int
}

// placedNote is a note label laid out on the canvas grid.
type placedNote struct {
	note  models.Note
	pos   cellPos
	width int
}

func (p placedNote) contains(c cellPos) bool {
	return c.row == p.pos.row && c.col >= p.pos.col && c.col < p.pos.col+p.width
}

// screenPoint is the canvas point at the top left corner of a cell.
func screenPoint(c cellPos) models.Point {
	return models.Point{X: float64(c.col) * cellWidth, Y: float64(c.row) * cellHeight}
}

func cellOf(p models.Point) cellPos {
	return cellPos{
		col: int(math.Floor(p.X / cellWidth)),
		row: int(math.Floor(p.Y / cellHeight)),
	}
}

func canvasSize(cols, rows int) models.Size {
	return models.Size{Width: float64(cols) * cellWidth, Height: float64(rows) * cellHeight}
}

func labelWidthFor(zoom float64) int {
	w := int(math.Round(labelWidth * zoom))
	return max(minLabelWidth, min(maxLabelWidth, w))
}

// layoutNotes positions every rendered note. Later notes are drawn over
// earlier ones, so hit testing walks the result backwards.
func layoutNotes(notes []models.Note, v models.Viewport) []placedNote {
	width := labelWidthFor(v.Zoom)
	out := make([]placedNote, 0, len(notes))
	for _, n := range notes {
		out = append(out, placedNote{
			note:  n,
			pos:   cellOf(viewport.ScreenFromWorld(n.Position, v)),
			width: width,
		})
	}
	return out
}

func noteAt(placed []placedNote, c cellPos) (models.Note, bool) {
	for i := len(placed) - 1; i >= 0; i-- {
		if placed[i].contains(c) {
			return placed[i].note, true
		}
	}
	return models.Note{}, false
}

func noteLabel(n models.Note, width int) string {
	text := singleLine(n.Content)
	if n.IsPending() {
		text = "~" + text
	}
	text = fitText(text, width)
	if pad := width - len([]rune(text)); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return text
}

type cell struct {
	r     rune
	style *lipgloss.Style
}

// canvas is a fixed size grid of styled runes.
type canvas struct {
	cols, rows int
	cells      [][]cell
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: max(cols, 0), rows: max(rows, 0)}
	c.cells = make([][]cell, c.rows)
	for i := range c.cells {
		c.cells[i] = make([]cell, c.cols)
		for j := range c.cells[i] {
			c.cells[i][j] = cell{r: ' '}
		}
	}
	return c
}

// write draws s from pos, clipping at the edges.
func (c *canvas) write(pos cellPos, s string, style *lipgloss.Style) {
	if pos.row < 0 || pos.row >= c.rows {
		return
	}
	col := pos.col
	for _, r := range s {
		if col >= c.cols {
			return
		}
		if col >= 0 {
			c.cells[pos.row][col] = cell{r: r, style: style}
		}
		col++
	}
}

// String renders the grid, styling runs of equally styled cells at once.
func (c *canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && row[j].style == row[start].style {
				continue
			}
			var run strings.Builder
			for _, cl := range row[start:j] {
				run.WriteRune(cl.r)
			}
			if st := row[start].style; st != nil {
				b.WriteString(st.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			start = j
		}
	}
	return b.String()
}

// renderCanvas draws the notes and, when showCursor is set, the cursor.
func renderCanvas(placed []placedNote, cols, rows int, selectedID string, cursor cellPos, showCursor bool) string {
	c := newCanvas(cols, rows)

	for _, p := range placed {
		style := noteStyle(p.note.Color, p.note.IsPending(), p.note.ID == selectedID)
		c.write(p.pos, noteLabel(p.note, p.width), &style)
	}
	if showCursor {
		c.write(cursor, "+", &cursorStyle)
	}
	return c.String()
}
