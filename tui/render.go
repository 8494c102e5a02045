package main

import (
	"fmt"

	"github.com/robertazzopardi/asteroids/sim"
)

const (
	glyphShip  = '#'
	glyphRock  = '*'
	glyphLaser = '|'
	glyphStar  = '.'
	glyphNova  = '+'

	// stars at least this big render brighter
	novaRadius = 2.5
)

// Render draws a frame onto the canvas, back to front
func Render(c *Canvas, f sim.Frame, fieldSize float64) {
	c.Clear()

	for _, s := range f.Stars {
		x, y := c.project(s.Pos, fieldSize)
		g := glyphStar
		if s.Radius >= novaRadius {
			g = glyphNova
		}
		c.plot(x, y, g, styleStar)
	}
	for _, a := range f.Asteroids {
		c.Shape(a, fieldSize, glyphRock, styleRock)
	}
	for _, l := range f.Lasers {
		x, y := c.project(l, fieldSize)
		c.plot(x, y, glyphLaser, styleLaser)
	}
	c.Shape(f.Ship, fieldSize, glyphShip, styleShip)

	w, h := c.Size()
	status := fmt.Sprintf(" SCORE %d  ROCKS %d", f.Score, len(f.Asteroids))
	for x := 0; x < w; x++ {
		c.Set(x, h-1, ' ', styleStatus)
	}
	c.Text(0, h-1, status, styleStatus)
	help := "arrows/wasd move  space fire  esc quit "
	if len(help) < w-len(status) {
		c.Text(w-len(help), h-1, help, styleStatus)
	}

	if f.Over {
		lines := []string{
			" GAME OVER ",
			fmt.Sprintf(" final score %d ", f.Score),
			" r restart  esc quit ",
		}
		mid := (h - 1) / 2
		for i, s := range lines {
			c.Text((w-len(s))/2, mid-1+i, s, styleGameOver)
		}
	}
}
