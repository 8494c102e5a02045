package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robertazzopardi/asteroids/geom"
	"github.com/robertazzopardi/asteroids/wrap"
)

func TestGridInsertAndQuery(t *testing.T) {
	g := NewGrid(size, DefaultCellSize)
	g.InsertBounds(geom.Vec2{X: 90, Y: 90}, geom.Vec2{X: 110, Y: 110}, 7)

	assert.Contains(t, g.QueryBuf(geom.Vec2{X: 105, Y: 95}, nil), 7)
	assert.Empty(t, g.QueryBuf(geom.Vec2{X: 600, Y: 600}, nil))
}

func TestGridClear(t *testing.T) {
	g := NewGrid(size, DefaultCellSize)
	g.InsertBounds(geom.Vec2{X: 500, Y: 500}, geom.Vec2{X: 520, Y: 520}, 1)
	g.Clear()

	assert.Empty(t, g.QueryBuf(geom.Vec2{X: 510, Y: 510}, nil))
}

func TestGridBoundaryClamp(t *testing.T) {
	g := NewGrid(size, DefaultCellSize)
	g.InsertBounds(geom.Vec2{X: -40, Y: -40}, geom.Vec2{X: -10, Y: -10}, 0)
	g.InsertBounds(geom.Vec2{X: 900, Y: 900}, geom.Vec2{X: 950, Y: 950}, 1)

	assert.Contains(t, g.QueryBuf(geom.Vec2{X: 0, Y: 0}, nil), 0)
	assert.Contains(t, g.QueryBuf(geom.Vec2{X: size, Y: size}, nil), 1)
}

func TestGridInsertBodyIndexesGhost(t *testing.T) {
	b := newBody(square(-30, 300, 60))
	wrap.Update(b, size)

	g := NewGrid(size, DefaultCellSize)
	g.InsertBody(b, 3)

	assert.Contains(t, g.QueryBuf(geom.Vec2{X: 10, Y: 320}, nil), 3)
	assert.Contains(t, g.QueryBuf(geom.Vec2{X: 790, Y: 320}, nil), 3)
}

func TestGridAgreesWithBruteForce(t *testing.T) {
	bodies := []*body{
		newBody(square(50, 50, 80)),
		newBody(square(700, 200, 150)),
		newBody(square(300, -40, 90)),
		newBody(square(310, 310, 40)),
	}
	g := NewGrid(size, DefaultCellSize)
	for i, b := range bodies {
		wrap.Update(b, size)
		g.InsertBody(b, i)
	}

	var buf []int
	for x := 0.0; x <= size; x += 13 {
		for y := 0.0; y <= size; y += 17 {
			pt := geom.Vec2{X: x, Y: y}
			want := -1
			for i, b := range bodies {
				if Contains(b, pt) {
					want = i
					break
				}
			}

			got := -1
			buf = g.QueryBuf(pt, buf[:0])
			for _, i := range buf {
				if (got < 0 || i < got) && Contains(bodies[i], pt) {
					got = i
				}
			}
			if !assert.Equal(t, want, got, "point %v", pt) {
				return
			}
		}
	}
}
