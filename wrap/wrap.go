// Package wrap keeps moving bodies continuous across the edges of a square
// toroidal field.
//
// Every body carries a primary polygon and a ghost polygon of the same
// vertex count. While the primary straddles an edge the ghost mirrors it one
// field length away on the opposite side, so both halves can be drawn and
// hit. Once the primary has fully left the field the ghost takes over.
package wrap

import (
	"fmt"

	"github.com/robertazzopardi/asteroids/geom"
)

// Body is anything tracked as a primary polygon plus a ghost copy. The
// returned polygons are live: Update writes the ghost in place.
type Body interface {
	Primary() geom.Polygon
	Ghost() geom.Polygon
	PromoteGhost()
}

// Offset returns the translation that carries p's ghost onto the opposite
// edge. Each axis is independent: any vertex below zero yields +size, any
// vertex beyond size yields -size, and the high bound wins if both trip.
func Offset(p geom.Polygon, size float64) geom.Vec2 {
	var lowX, highX, lowY, highY bool
	for _, v := range p {
		lowX = lowX || v.X < 0
		highX = highX || v.X > size
		lowY = lowY || v.Y < 0
		highY = highY || v.Y > size
	}

	var off geom.Vec2
	if lowY {
		off.Y = size
	}
	if highY {
		off.Y = -size
	}
	if lowX {
		off.X = size
	}
	if highX {
		off.X = -size
	}
	return off
}

// Exited reports whether every vertex of p lies outside [0, size]²
func Exited(p geom.Polygon, size float64) bool {
	for _, v := range p {
		if !outside(v, size) {
			return false
		}
	}
	return true
}

// GhostVisible reports whether a renderer needs the ghost: true as soon as
// any primary vertex is not strictly inside the field
func GhostVisible(p geom.Polygon, size float64) bool {
	for _, v := range p {
		if v.X <= 0 || v.X >= size || v.Y <= 0 || v.Y >= size {
			return true
		}
	}
	return false
}

// Update recomputes b's ghost from its primary and promotes the ghost once
// the primary has fully exited. It returns true when a promotion happened.
func Update(b Body, size float64) bool {
	primary, ghost := b.Primary(), b.Ghost()
	if len(primary) != len(ghost) {
		panic(fmt.Sprintf("wrap: ghost has %d vertices, primary has %d", len(ghost), len(primary)))
	}

	off := Offset(primary, size)
	for i, v := range primary {
		ghost[i] = v.Add(off)
	}

	if Exited(primary, size) {
		b.PromoteGhost()
		return true
	}
	return false
}

// Point re-enters a point on the opposite edge the instant it crosses one
func Point(v geom.Vec2, size float64) geom.Vec2 {
	if v.Y < 0 {
		v.Y += size
	}
	if v.Y > size {
		v.Y -= size
	}
	if v.X < 0 {
		v.X += size
	}
	if v.X > size {
		v.X -= size
	}
	return v
}

func outside(v geom.Vec2, size float64) bool {
	return v.X < 0 || v.X > size || v.Y < 0 || v.Y > size
}
