package sim

import "github.com/robertazzopardi/asteroids/geom"

// Params is the per-session tuning context. SpeedMax is the one mutable
// field: every break-up raises it and repopulation restores it.
type Params struct {
	FieldSize        float64
	SpeedMin         float64
	SpeedMax         float64
	SpeedMaxInitial  float64
	SpeedStep        float64
	MaxDt            float64
	SpawnChance      float64
	MaxAsteroids     int
	InitialAsteroids int
}

// DefaultParams returns the classic 800×800 tuning
func DefaultParams() Params {
	return Params{
		FieldSize:        DefaultFieldSize,
		SpeedMin:         AsteroidSpeedMin,
		SpeedMax:         AsteroidSpeedMax,
		SpeedMaxInitial:  AsteroidSpeedMax,
		SpeedStep:        AsteroidSpeedStep,
		MaxDt:            MaxDt,
		SpawnChance:      SpawnChance,
		MaxAsteroids:     MaxAsteroids,
		InitialAsteroids: InitialAsteroids,
	}
}

// Escalate raises the drift speed ceiling by one step
func (p *Params) Escalate() {
	p.SpeedMax += p.SpeedStep
}

// ResetEscalation restores the drift speed ceiling
func (p *Params) ResetEscalation() {
	p.SpeedMax = p.SpeedMaxInitial
}

// Center returns the middle of the field
func (p *Params) Center() geom.Vec2 {
	return geom.Vec2{X: p.FieldSize / 2, Y: p.FieldSize / 2}
}

// ClampDt limits an elapsed time to [0, MaxDt]
func (p *Params) ClampDt(dt float64) float64 {
	if dt < 0 {
		return 0
	}
	if p.MaxDt > 0 && dt > p.MaxDt {
		return p.MaxDt
	}
	return dt
}
