// Package sim runs the asteroids simulation: asteroid lifecycle, ship and
// laser kinematics, and the per-tick driver that ties them to the wrap and
// collision engines.
package sim

import (
	"github.com/robertazzopardi/asteroids/collision"
	"github.com/robertazzopardi/asteroids/geom"
	"github.com/robertazzopardi/asteroids/wrap"
)

// Result summarises one tick for the caller
type Result struct {
	Hits       int // rocks destroyed by lasers
	ScoreDelta int
	Over       bool // ship hit a rock
	Quit       bool
}

// World owns every entity of one game. It is not safe for concurrent use.
type World struct {
	params Params
	rng    *Rand
	ship   *Ship
	rocks  []*Asteroid
	stars  []Star
	grid   *collision.Grid
	buf    []int
	score  int
	ticks  uint64
	over   bool
	quit   bool
}

// NewWorld sets up a ship at the centre, the initial rocks and the star
// field. A nil rng is seeded from crypto/rand.
func NewWorld(p Params, rng *Rand) *World {
	if rng == nil {
		rng = NewSeededRand()
	}
	w := &World{
		params: p,
		rng:    rng,
		grid:   collision.NewGrid(p.FieldSize, collision.DefaultCellSize),
	}
	w.ship = NewShip(p.Center())
	for _, a := range Populate(p.InitialAsteroids, &w.params, rng) {
		w.Spawn(a)
	}
	w.stars = NewStars(StarCount, p.FieldSize, rng)
	return w
}

// Handle applies an input event and reports whether it fired a laser
func (w *World) Handle(ev Event) bool {
	if w.Done() {
		return false
	}
	if ev == Quit {
		w.quit = true
		return false
	}
	return w.ship.Handle(ev)
}

// Step advances the world by dt seconds, clamped to [0, MaxDt]. A finished
// world does not move.
func (w *World) Step(dt float64) Result {
	if w.Done() {
		return Result{Over: w.over, Quit: w.quit}
	}
	dt = w.params.ClampDt(dt)
	size := w.params.FieldSize
	w.ticks++

	w.ship.Update(dt)
	for _, r := range w.rocks {
		r.Update()
	}
	w.rocks = MaybeSpawn(w.rocks, &w.params, w.rng)

	wrap.Update(w.ship, size)
	for _, r := range w.rocks {
		wrap.Update(r, size)
	}
	for i := range w.ship.Lasers {
		w.ship.Lasers[i].Pos = wrap.Point(w.ship.Lasers[i].Pos, size)
	}

	var res Result
	w.indexRocks()
	for i := len(w.ship.Lasers) - 1; i >= 0; i-- {
		idx := w.rockAt(w.ship.Lasers[i].Pos)
		if idx < 0 {
			continue
		}
		w.rocks = BreakUp(w.rocks, idx, &w.params, w.rng)
		w.ship.RemoveLaser(i)
		w.score += HitScore
		res.Hits++
		res.ScoreDelta += HitScore
		w.indexRocks()
	}

	for _, r := range w.rocks {
		if collision.Overlaps(w.ship, r) {
			w.over = true
			break
		}
	}
	res.Over = w.over

	Twinkle(w.stars, w.rng)
	return res
}

func (w *World) indexRocks() {
	w.grid.Clear()
	for i, r := range w.rocks {
		w.grid.InsertBody(r, i)
	}
}

// rockAt returns the lowest index of a rock containing pt, or -1
func (w *World) rockAt(pt geom.Vec2) int {
	w.buf = w.grid.QueryBuf(pt, w.buf[:0])
	hit := -1
	for _, i := range w.buf {
		if (hit < 0 || i < hit) && w.rocks[i].Contains(pt) {
			hit = i
		}
	}
	return hit
}

// Spawn adds a rock to the field. Its ghost is brought up to date on the
// next step.
func (w *World) Spawn(a *Asteroid) {
	w.rocks = append(w.rocks, a)
}

// Done reports whether the game has ended by collision or quit
func (w *World) Done() bool {
	return w.over || w.quit
}

// Over reports whether the ship was destroyed
func (w *World) Over() bool {
	return w.over
}

// Score returns the points earned so far
func (w *World) Score() int {
	return w.score
}

// Ticks returns the number of steps taken
func (w *World) Ticks() uint64 {
	return w.ticks
}

// Ship returns the pilot ship
func (w *World) Ship() *Ship {
	return w.ship
}

// Asteroids returns the live rocks. The slice is owned by the world.
func (w *World) Asteroids() []*Asteroid {
	return w.rocks
}

// Params returns the current tuning, including escalation
func (w *World) Params() Params {
	return w.params
}
