package sim

import (
	"github.com/robertazzopardi/asteroids/geom"
	"github.com/robertazzopardi/asteroids/wrap"
)

// Shape is one wrapping outline. Ghost is nil while the primary sits
// strictly inside the field.
type Shape struct {
	Primary geom.Polygon
	Ghost   geom.Polygon
}

// Frame is a detached snapshot of everything a renderer draws
type Frame struct {
	Ship      Shape
	Asteroids []Shape
	Lasers    []geom.Vec2
	Stars     []Star
	Score     int
	Over      bool
}

// Frame copies the current geometry out of the world
func (w *World) Frame() Frame {
	size := w.params.FieldSize
	f := Frame{
		Ship:      shapeOf(w.ship, size),
		Asteroids: make([]Shape, len(w.rocks)),
		Lasers:    make([]geom.Vec2, len(w.ship.Lasers)),
		Stars:     make([]Star, len(w.stars)),
		Score:     w.score,
		Over:      w.over,
	}
	for i, r := range w.rocks {
		f.Asteroids[i] = shapeOf(r, size)
	}
	for i, l := range w.ship.Lasers {
		f.Lasers[i] = l.Pos
	}
	copy(f.Stars, w.stars)
	return f
}

func shapeOf(b wrap.Body, size float64) Shape {
	s := Shape{Primary: b.Primary().Clone()}
	if wrap.GhostVisible(b.Primary(), size) {
		s.Ghost = b.Ghost().Clone()
	}
	return s
}
