package geom

import (
	"fmt"
	"math"
)

// MinVertices is the smallest vertex count a Polygon may have
const MinVertices = 3

// Polygon is an ordered, implicitly closed vertex list. Edge i joins
// vertex i and vertex (i+1) mod n.
type Polygon []Vec2

// NewPolygon copies verts into a Polygon, panicking when fewer than
// MinVertices are given
func NewPolygon(verts ...Vec2) Polygon {
	if len(verts) < MinVertices {
		panic(fmt.Sprintf("geom: polygon needs at least %d vertices, got %d", MinVertices, len(verts)))
	}
	p := make(Polygon, len(verts))
	copy(p, verts)
	return p
}

// Centroid returns the arithmetic mean of the vertices
func (p Polygon) Centroid() Vec2 {
	if len(p) == 0 {
		panic("geom: centroid of empty polygon")
	}
	var sum Vec2
	for _, v := range p {
		sum.X += v.X
		sum.Y += v.Y
	}
	n := float64(len(p))
	return Vec2{X: sum.X / n, Y: sum.Y / n}
}

// Rotate turns every vertex by angle radians about the polygon's current
// centroid, in place
func (p Polygon) Rotate(angle float64) {
	origin := p.Centroid()
	cos := math.Cos(angle)
	sin := math.Sin(angle)

	for i, v := range p {
		px := v.X - origin.X
		py := v.Y - origin.Y
		p[i] = Vec2{
			X: origin.X + cos*px - sin*py,
			Y: origin.Y + sin*px + cos*py,
		}
	}
}

// Translate moves every vertex by d, in place
func (p Polygon) Translate(d Vec2) {
	for i := range p {
		p[i].X += d.X
		p[i].Y += d.Y
	}
}

// Clone returns an independent copy of p
func (p Polygon) Clone() Polygon {
	if p == nil {
		return nil
	}
	c := make(Polygon, len(p))
	copy(c, p)
	return c
}

// Bounds returns the axis-aligned bounding box of p
func (p Polygon) Bounds() (min, max Vec2) {
	if len(p) == 0 {
		return Vec2{}, Vec2{}
	}
	min, max = p[0], p[0]
	for _, v := range p[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
	}
	return min, max
}
