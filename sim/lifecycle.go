package sim

import (
	"fmt"
	"math"
	"slices"

	"github.com/robertazzopardi/asteroids/geom"
)

// EdgePosition picks a random point on the circle inscribed in the field,
// so new rocks appear touching an edge
func EdgePosition(p *Params, rng *Rand) geom.Vec2 {
	a := rng.Angle()
	r := p.FieldSize / 2
	c := p.Center()
	return geom.Vec2{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
}

// SpawnAsteroid creates a full-size rock at an edge position
func SpawnAsteroid(p *Params, rng *Rand) *Asteroid {
	return NewAsteroid(AsteroidMinRadius, AsteroidMaxRadius, EdgePosition(p, rng), p, rng)
}

// Populate creates n full-size rocks
func Populate(n int, p *Params, rng *Rand) []*Asteroid {
	rocks := make([]*Asteroid, 0, n)
	for i := 0; i < n; i++ {
		rocks = append(rocks, SpawnAsteroid(p, rng))
	}
	return rocks
}

// BreakUp removes rocks[index] and returns the updated collection. A whole
// rock leaves 2 or 3 fragments at its centroid; a fragment leaves nothing.
// Every call raises the speed ceiling. If the field empties, it is
// repopulated with fresh rocks and the ceiling is restored.
func BreakUp(rocks []*Asteroid, index int, p *Params, rng *Rand) []*Asteroid {
	if index < 0 || index >= len(rocks) {
		panic(fmt.Sprintf("sim: break up index %d out of range [0,%d)", index, len(rocks)))
	}
	p.Escalate()

	rock := rocks[index]
	rocks = slices.Delete(rocks, index, index+1)

	if !rock.Divided {
		c := rock.Primary().Centroid()
		n := FragmentsMin + rng.Intn(FragmentsMax-FragmentsMin+1)
		for i := 0; i < n; i++ {
			f := NewAsteroid(FragmentMinRadius, FragmentMaxRadius, c, p, rng)
			f.Divided = true
			f.Heading = rng.Angle()
			rocks = append(rocks, f)
		}
	}

	if len(rocks) == 0 {
		p.ResetEscalation()
		rocks = Populate(RepopulateCount, p, rng)
	}
	return rocks
}

// MaybeSpawn rolls the ambient spawn chance and appends a full-size rock on
// success while the field holds fewer than MaxAsteroids
func MaybeSpawn(rocks []*Asteroid, p *Params, rng *Rand) []*Asteroid {
	if len(rocks) >= p.MaxAsteroids {
		return rocks
	}
	if rng.Float64() < p.SpawnChance {
		rocks = append(rocks, SpawnAsteroid(p, rng))
	}
	return rocks
}
