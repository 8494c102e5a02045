package sim

import (
	"math"
	"slices"

	"github.com/robertazzopardi/asteroids/geom"
	"github.com/robertazzopardi/asteroids/wrap"
)

// Ship is the pilot's triangle. Vertex ShipNose is the tip; Heading only
// changes when the pilot thrusts or fires, not while rotating.
type Ship struct {
	wrap.Shell
	Velocity geom.Vec2
	Accel    float64
	Heading  float64
	Rotation float64 // radians/s, positive turns right
	Lasers   []Laser
	firing   bool
}

// NewShip places a ship at c with its nose pointing up
func NewShip(c geom.Vec2) *Ship {
	half := 2.5 * ShipScale
	poly := geom.NewPolygon(
		geom.Vec2{X: c.X - half, Y: c.Y + half},
		geom.Vec2{X: c.X + half, Y: c.Y + half},
		geom.Vec2{X: c.X, Y: c.Y - 2*half},
	)
	s := &Ship{Shell: wrap.NewShell(poly)}
	s.aim()
	return s
}

// Nose returns the tip of the primary triangle
func (s *Ship) Nose() geom.Vec2 {
	return s.Primary()[ShipNose]
}

// Firing reports whether the fire latch is set
func (s *Ship) Firing() bool {
	return s.firing
}

func (s *Ship) aim() {
	s.Heading = s.Primary().Centroid().Heading(s.Nose())
}

// Handle applies a control event and reports whether a laser was fired.
// Quit is the world's business and is ignored here.
func (s *Ship) Handle(ev Event) bool {
	switch ev {
	case RotateLeft:
		s.Rotation = -ShipRotateSpeed
	case RotateRight:
		s.Rotation = ShipRotateSpeed
	case RotateStop:
		s.Rotation = 0
	case ThrustStart:
		s.aim()
		if s.Velocity.Magnitude() < ShipMaxSpeed {
			s.Accel += ShipThrust
		} else {
			s.Accel = 0
		}
	case ThrustStop:
		s.Accel = 0
	case Fire:
		if s.firing {
			return false
		}
		s.aim()
		s.Lasers = append(s.Lasers, NewLaser(s.Nose(), s.Heading))
		s.firing = true
		return true
	case FireRelease:
		s.firing = false
	}
	return false
}

// Update turns, damps, accelerates and moves the ship by dt seconds, then
// advances its lasers and drops the spent ones
func (s *Ship) Update(dt float64) {
	if s.Rotation != 0 {
		s.Rotate(s.Rotation * dt)
	}

	s.Velocity = s.Velocity.Scale(ShipDamping)
	dv := s.Accel * dt * ShipAccelScale
	s.Velocity.X += dv
	s.Velocity.Y += dv

	s.Translate(geom.Vec2{
		X: s.Velocity.X * dt * math.Cos(s.Heading),
		Y: s.Velocity.Y * dt * math.Sin(s.Heading),
	})

	for i := range s.Lasers {
		s.Lasers[i].Update(dt)
	}
	s.Lasers = slices.DeleteFunc(s.Lasers, func(l Laser) bool { return l.Expired() })
}

// RemoveLaser drops the laser at index i
func (s *Ship) RemoveLaser(i int) {
	s.Lasers = slices.Delete(s.Lasers, i, i+1)
}
