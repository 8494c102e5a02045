package main

import (
	"math"

	"github.com/robertazzopardi/asteroids/geom"
	"github.com/robertazzopardi/asteroids/sim"
)

// ShapeState is a polygon as flat [x0, y0, x1, y1, ...] coordinates. G is
// only present while the ghost is on screen.
type ShapeState struct {
	P []float64 `json:"p" msgpack:"p"`
	G []float64 `json:"g,omitempty" msgpack:"g,omitempty"`
}

// FrameState is the binary frame broadcast to every client of a session
type FrameState struct {
	Tick      uint64       `json:"tick" msgpack:"tick"`
	Ship      ShapeState   `json:"s" msgpack:"s"`
	Asteroids []ShapeState `json:"a" msgpack:"a"`
	Lasers    []float64    `json:"l" msgpack:"l"`   // x, y pairs
	Stars     []float64    `json:"st" msgpack:"st"` // x, y, radius triples
	Score     int          `json:"sc" msgpack:"sc"`
	Over      bool         `json:"o" msgpack:"o"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func flatten(p geom.Polygon) []float64 {
	if p == nil {
		return nil
	}
	out := make([]float64, 0, len(p)*2)
	for _, v := range p {
		out = append(out, round1(v.X), round1(v.Y))
	}
	return out
}

func shapeState(s sim.Shape) ShapeState {
	return ShapeState{P: flatten(s.Primary), G: flatten(s.Ghost)}
}

// ToFrameState converts a simulation frame to its wire form
func ToFrameState(f sim.Frame, tick uint64) FrameState {
	fs := FrameState{
		Tick:      tick,
		Ship:      shapeState(f.Ship),
		Asteroids: make([]ShapeState, len(f.Asteroids)),
		Lasers:    make([]float64, 0, len(f.Lasers)*2),
		Stars:     make([]float64, 0, len(f.Stars)*3),
		Score:     f.Score,
		Over:      f.Over,
	}
	for i, a := range f.Asteroids {
		fs.Asteroids[i] = shapeState(a)
	}
	for _, l := range f.Lasers {
		fs.Lasers = append(fs.Lasers, round1(l.X), round1(l.Y))
	}
	for _, s := range f.Stars {
		fs.Stars = append(fs.Stars, round1(s.Pos.X), round1(s.Pos.Y), round1(s.Radius))
	}
	return fs
}
