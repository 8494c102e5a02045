package sim

import "github.com/robertazzopardi/asteroids/geom"

// Star is a background point. Radius changes as it twinkles.
type Star struct {
	Pos    geom.Vec2
	Radius float64
}

// NewStars scatters n stars over the field
func NewStars(n int, size float64, rng *Rand) []Star {
	stars := make([]Star, n)
	for i := range stars {
		stars[i] = Star{
			Pos:    geom.Vec2{X: rng.Range(0, size), Y: rng.Range(0, size)},
			Radius: rng.Range(StarMinRadius, StarMaxRadius),
		}
	}
	return stars
}

// Twinkle re-rolls the radius of each star with probability StarTwinkle
func Twinkle(stars []Star, rng *Rand) {
	for i := range stars {
		if rng.Float64() < StarTwinkle {
			stars[i].Radius = rng.Range(StarMinRadius, StarMaxRadius)
		}
	}
}
