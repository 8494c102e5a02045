// Package geom holds the 2D vector and polygon math shared by the simulation.
package geom

import "math"

// Vec2 is a point or displacement in field space
type Vec2 struct {
	X, Y float64
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by s
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Magnitude returns the Euclidean length of v
func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Heading returns the angle in radians of the direction from v toward o
func (v Vec2) Heading(o Vec2) float64 {
	return math.Atan2(o.Y-v.Y, o.X-v.X)
}

// Distance returns the distance between v and o
func (v Vec2) Distance(o Vec2) float64 {
	return o.Sub(v).Magnitude()
}
