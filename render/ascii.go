package render

import (
	"errors"
	"strings"

	"github.com/TFMV/simplegraph/graph"
	"github.com/TFMV/simplegraph/scene"
)

// ErrCanvasTooSmall is returned when the character grid cannot hold a frame.
var ErrCanvasTooSmall = errors.New("render: canvas too small")

var nodeSymbols = []rune{'O', '@', '#', 'X', '*', '+'}

const edgeSymbol = '·'

// ASCII draws the scene onto a character grid. It is also the projector the
// terminal host hands to the picker: Project answers in grid cells of the
// last rendered frame.
type ASCII struct {
	output
	cols, rows int
	showLabels bool
	view       viewport
	rendered   bool
}

// NewASCII creates a renderer for a cols x rows grid, border included.
func NewASCII(cols, rows int, showLabels bool) *ASCII {
	return &ASCII{cols: cols, rows: rows, showLabels: showLabels}
}

// Name returns the name of the renderer
func (r *ASCII) Name() string {
	return "ASCII Renderer"
}

// Resize changes the grid size used by the next frame.
func (r *ASCII) Resize(cols, rows int) {
	r.cols, r.rows = cols, rows
}

// Size returns the grid size.
func (r *ASCII) Size() (cols, rows int) {
	return r.cols, r.rows
}

// Render draws the scene with a border, connectors first and nodes on top.
func (r *ASCII) Render(s *scene.Scene, viewpoint graph.Position) error {
	if r.cols < 3 || r.rows < 3 {
		return ErrCanvasTooSmall
	}
	width, height := r.cols, r.rows

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	// Draw a border around the graph
	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][width-1] = '+'
	grid[height-1][0] = '+'
	grid[height-1][width-1] = '+'

	// Inner canvas, one cell in from the border on every side.
	r.view = fit(s, viewpoint, float64(width-3), float64(height-3), 0, false)
	r.rendered = true

	for _, e := range s.EdgeProxies() {
		x1, y1, ok1 := r.cell(*e.From)
		x2, y2, ok2 := r.cell(*e.To)
		if !ok1 || !ok2 {
			continue
		}
		drawLine(grid, x1, y1, x2, y2)
	}

	for _, n := range s.NodeProxies() {
		x, y, ok := r.cell(*n.Position)
		if !ok {
			continue
		}
		grid[y][x] = symbolFor(n.Skin)
	}

	if r.showLabels {
		for _, l := range s.Labels() {
			r.drawLabel(grid, l)
		}
	}

	// Convert grid to string
	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}
	r.data = []byte(result.String())
	return nil
}

// Project maps a world position to the grid cell it was drawn in.
func (r *ASCII) Project(p graph.Position) (x, y float64, ok bool) {
	if !r.rendered {
		return 0, 0, false
	}
	cx, cy, ok := r.cell(p)
	return float64(cx), float64(cy), ok
}

// String returns the last frame.
func (r *ASCII) String() string {
	return string(r.data)
}

func (r *ASCII) cell(p graph.Position) (int, int, bool) {
	fx, fy, ok := r.view.canvas(p)
	if !ok {
		return 0, 0, false
	}
	x := clamp(int(fx+0.5)+1, 1, r.cols-2)
	y := clamp(int(fy+0.5)+1, 1, r.rows-2)
	return x, y, true
}

// drawLabel writes the label text starting at its cell, truncated at the
// border and never over a node symbol.
func (r *ASCII) drawLabel(grid [][]rune, l *scene.Label) {
	x, y, ok := r.cell(l.Position)
	if !ok {
		return
	}
	for i, c := range []rune(l.Text) {
		if x+i >= r.cols-1 {
			break
		}
		if isNodeSymbol(grid[y][x+i]) {
			continue
		}
		grid[y][x+i] = c
	}
}

func symbolFor(skin int) rune {
	if skin < 1 {
		skin = 1
	}
	return nodeSymbols[(skin-1)%len(nodeSymbols)]
}

func isNodeSymbol(c rune) bool {
	for _, s := range nodeSymbols {
		if c == s {
			return true
		}
	}
	return false
}

// drawLine plots a connector with Bresenham's algorithm.
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		// Plot the point if it's in bounds
		if x1 >= 0 && x1 < len(grid[0]) && y1 >= 0 && y1 < len(grid) {
			// Don't overwrite node symbols
			if !isNodeSymbol(grid[y1][x1]) {
				grid[y1][x1] = edgeSymbol
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			if x1 == x2 {
				break
			}
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			if y1 == y2 {
				break
			}
			err += dx
			y1 += sy
		}
	}
}
