package collision

import (
	"math"

	"github.com/robertazzopardi/asteroids/geom"
	"github.com/robertazzopardi/asteroids/wrap"
)

// DefaultCellSize is about the diameter of a full-size asteroid
const DefaultCellSize = 100.0

// Grid is a fixed-size grid for broad-phase queries over the field.
// Coordinates outside the field clamp to the border cells, so bodies that
// straddle an edge are still found by points that wrapped back in.
type Grid struct {
	cellSize   float64
	cols, rows int
	cells      [][]int
}

// NewGrid covers a square field of the given size
func NewGrid(fieldSize, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	n := int(math.Ceil(fieldSize/cellSize)) + 1
	return &Grid{
		cellSize: cellSize,
		cols:     n,
		rows:     n,
		cells:    make([][]int, n*n),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *Grid) cell(x, y float64) (int, int) {
	cx := int(math.Floor(x / g.cellSize))
	cy := int(math.Floor(y / g.cellSize))
	if cx < 0 {
		cx = 0
	} else if cx >= g.cols {
		cx = g.cols - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= g.rows {
		cy = g.rows - 1
	}
	return cx, cy
}

// InsertBounds adds idx to every cell overlapping the box [min, max]
func (g *Grid) InsertBounds(min, max geom.Vec2, idx int) {
	minCX, minCY := g.cell(min.X, min.Y)
	maxCX, maxCY := g.cell(max.X, max.Y)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			i := cy*g.cols + cx
			g.cells[i] = append(g.cells[i], idx)
		}
	}
}

// InsertBody indexes both copies of b under idx
func (g *Grid) InsertBody(b wrap.Body, idx int) {
	min, max := b.Primary().Bounds()
	g.InsertBounds(min, max, idx)

	gmin, gmax := b.Ghost().Bounds()
	if gmin != min || gmax != max {
		g.InsertBounds(gmin, gmax, idx)
	}
}

// QueryBuf appends the indices stored in pt's cell to buf and returns the
// extended slice, avoiding per-call allocation. Indices may repeat.
func (g *Grid) QueryBuf(pt geom.Vec2, buf []int) []int {
	cx, cy := g.cell(pt.X, pt.Y)
	return append(buf, g.cells[cy*g.cols+cx]...)
}
