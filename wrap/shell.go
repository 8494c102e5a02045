package wrap

import "github.com/robertazzopardi/asteroids/geom"

// Shell is the primary/ghost pair embedded by every wrapping entity. Its
// methods move both copies together so the ghost stays a pure translation
// of the primary.
type Shell struct {
	primary geom.Polygon
	ghost   geom.Polygon
}

// NewShell starts a shell whose ghost coincides with p
func NewShell(p geom.Polygon) Shell {
	return Shell{primary: p, ghost: p.Clone()}
}

// Primary returns the tracked, authoritative polygon
func (s *Shell) Primary() geom.Polygon {
	return s.primary
}

// Ghost returns the mirror polygon
func (s *Shell) Ghost() geom.Polygon {
	return s.ghost
}

// PromoteGhost makes the ghost the primary and re-synchronises the new
// ghost onto it, so no offset survives the swap
func (s *Shell) PromoteGhost() {
	s.primary, s.ghost = s.ghost, s.primary
	copy(s.ghost, s.primary)
}

// Translate moves both copies by d
func (s *Shell) Translate(d geom.Vec2) {
	s.primary.Translate(d)
	s.ghost.Translate(d)
}

// Rotate turns both copies about their own centroids
func (s *Shell) Rotate(angle float64) {
	s.primary.Rotate(angle)
	s.ghost.Rotate(angle)
}
