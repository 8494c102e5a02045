package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/robertazzopardi/asteroids/geom"
	"github.com/robertazzopardi/asteroids/sim"
)

var (
	styleShip     = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleRock     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleGhost    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLaser    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleStar     = tcell.StyleDefault.Foreground(tcell.ColorDimGray)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleGameOver = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// Cell is one terminal character
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Canvas is an off-screen cell buffer. The bottom row is the status line;
// the rows above it show the whole field scaled to fit.
type Canvas struct {
	w, h  int
	cells []Cell
}

// NewCanvas allocates a w x h canvas
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates when the terminal size changes
func (c *Canvas) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 2 {
		h = 2
	}
	if w == c.w && h == c.h {
		return
	}
	c.w, c.h = w, h
	c.cells = make([]Cell, w*h)
	c.Clear()
}

// Clear blanks every cell
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = Cell{Rune: ' ', Style: tcell.StyleDefault}
	}
}

// Size returns the canvas dimensions
func (c *Canvas) Size() (int, int) {
	return c.w, c.h
}

// Set writes a cell, ignoring coordinates outside the canvas
func (c *Canvas) Set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = Cell{Rune: r, Style: style}
}

// Get returns the cell at x, y; out of range reads a blank
func (c *Canvas) Get(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return Cell{Rune: ' '}
	}
	return c.cells[y*c.w+x]
}

// Row returns the runes of row y as a string
func (c *Canvas) Row(y int) string {
	out := make([]rune, c.w)
	for x := range out {
		out[x] = c.Get(x, y).Rune
	}
	return string(out)
}

// Text writes s starting at x, y
func (c *Canvas) Text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		c.Set(x, y, r, style)
		x++
	}
}

// Flush copies the canvas to the screen and shows it
func (c *Canvas) Flush(s tcell.Screen) {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			cell := c.cells[y*c.w+x]
			s.SetContent(x, y, cell.Rune, nil, cell.Style)
		}
	}
	s.Show()
}

// project maps field coordinates to a cell in the play area
func (c *Canvas) project(p geom.Vec2, fieldSize float64) (int, int) {
	sx := float64(c.w) / fieldSize
	sy := float64(c.h-1) / fieldSize
	return int(p.X * sx), int(p.Y * sy)
}

// inPlay reports whether cell y belongs to the play area
func (c *Canvas) inPlay(y int) bool {
	return y >= 0 && y < c.h-1
}

func (c *Canvas) plot(x, y int, r rune, style tcell.Style) {
	if c.inPlay(y) {
		c.Set(x, y, r, style)
	}
}

// Line rasterises a segment with Bresenham's algorithm
func (c *Canvas) Line(x0, y0, x1, y1 int, r rune, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.plot(x0, y0, r, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Polygon draws the closed outline of p
func (c *Canvas) Polygon(p geom.Polygon, fieldSize float64, r rune, style tcell.Style) {
	if len(p) == 0 {
		return
	}
	px, py := c.project(p[len(p)-1], fieldSize)
	for _, v := range p {
		x, y := c.project(v, fieldSize)
		c.Line(px, py, x, y, r, style)
		px, py = x, y
	}
}

// Shape draws the primary outline and, when visible, its ghost
func (c *Canvas) Shape(s sim.Shape, fieldSize float64, r rune, style tcell.Style) {
	if s.Ghost != nil {
		c.Polygon(s.Ghost, fieldSize, r, styleGhost)
	}
	c.Polygon(s.Primary, fieldSize, r, style)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
