package sim

import (
	"math"

	"github.com/robertazzopardi/asteroids/geom"
)

// Laser is a point projectile. DDelta accumulates distance travelled.
type Laser struct {
	Pos      geom.Vec2
	Velocity geom.Vec2
	Heading  float64
	DDelta   float64
}

// NewLaser fires from pos along heading
func NewLaser(pos geom.Vec2, heading float64) Laser {
	return Laser{
		Pos:      pos,
		Velocity: geom.Vec2{X: LaserSpeed, Y: LaserSpeed},
		Heading:  heading,
	}
}

// Update moves the laser by dt seconds
func (l *Laser) Update(dt float64) {
	l.DDelta += l.Velocity.Magnitude() * dt
	l.Pos.X += l.Velocity.X * dt * math.Cos(l.Heading)
	l.Pos.Y += l.Velocity.Y * dt * math.Sin(l.Heading)
}

// Expired reports whether the laser has used up its range
func (l *Laser) Expired() bool {
	return l.DDelta >= LaserMaxTravel
}
