// Package collision answers containment questions against wrapping bodies.
package collision

import (
	"github.com/robertazzopardi/asteroids/geom"
	"github.com/robertazzopardi/asteroids/wrap"
)

// PointInPolygon applies the even-odd rule: a horizontal ray cast from pt
// toward +X toggles the result at every edge it crosses. Points exactly on
// an edge resolve however the strict comparisons fall, which is stable for
// a given input.
func PointInPolygon(p geom.Polygon, pt geom.Vec2) bool {
	inside := false
	j := len(p) - 1
	for i := range p {
		vi, vj := p[i], p[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Contains reports whether either copy of b contains pt
func Contains(b wrap.Body, pt geom.Vec2) bool {
	return PointInPolygon(b.Primary(), pt) || PointInPolygon(b.Ghost(), pt)
}

// Overlaps reports whether any vertex of probe, primary or ghost, lies
// inside target
func Overlaps(probe, target wrap.Body) bool {
	for _, v := range probe.Primary() {
		if Contains(target, v) {
			return true
		}
	}
	for _, v := range probe.Ghost() {
		if Contains(target, v) {
			return true
		}
	}
	return false
}
