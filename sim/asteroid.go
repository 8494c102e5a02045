package sim

import (
	"math"

	"github.com/robertazzopardi/asteroids/collision"
	"github.com/robertazzopardi/asteroids/geom"
	"github.com/robertazzopardi/asteroids/wrap"
)

// Asteroid is a jagged rock drifting across the field. Speed holds one drift
// scalar per axis; Heading scales them by its cosine and sine respectively.
type Asteroid struct {
	wrap.Shell
	Speed   geom.Vec2
	Heading float64
	Divided bool // fragments are terminal
}

// NewAsteroid generates a rock around center with vertex radii drawn from
// [minR, maxR), heading for the middle of the field
func NewAsteroid(minR, maxR float64, center geom.Vec2, p *Params, rng *Rand) *Asteroid {
	verts := make([]geom.Vec2, AsteroidVertices)
	step := 2 * math.Pi / AsteroidVertices
	for i := range verts {
		a := float64(i) * step
		r := rng.Range(minR, maxR)
		verts[i] = geom.Vec2{
			X: r*math.Sin(a) + center.X,
			Y: r*math.Cos(a) + center.Y,
		}
	}
	poly := geom.NewPolygon(verts...)

	return &Asteroid{
		Shell:   wrap.NewShell(poly),
		Heading: poly.Centroid().Heading(p.Center()),
		Speed: geom.Vec2{
			X: rng.Range(p.SpeedMin, p.SpeedMax),
			Y: rng.Range(p.SpeedMin, p.SpeedMax),
		},
	}
}

// Update drifts the rock one tick. Motion is per tick, not per second.
func (a *Asteroid) Update() {
	a.Translate(geom.Vec2{
		X: a.Speed.X * math.Cos(a.Heading),
		Y: a.Speed.Y * math.Sin(a.Heading),
	})
}

// Contains reports whether pt lies inside either copy of the rock
func (a *Asteroid) Contains(pt geom.Vec2) bool {
	return collision.Contains(a, pt)
}
