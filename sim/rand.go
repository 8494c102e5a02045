package sim

import (
	"crypto/rand"
	"encoding/binary"
	"math"
)

// Rand is a small xorshift generator. Not safe for concurrent use; each
// World owns one.
type Rand struct {
	state uint64
}

// NewRand returns a generator with a fixed seed (0 is remapped to 1)
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{state: seed}
}

// NewSeededRand seeds from crypto/rand
func NewSeededRand() *Rand {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return NewRand(binary.LittleEndian.Uint64(b[:]))
}

func (r *Rand) next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// Float64 returns a value in [0, 1)
func (r *Rand) Float64() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// Range returns a value in [min, max). An empty range returns min.
func (r *Rand) Range(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.Float64()*(max-min)
}

// Intn returns a value in [0, n); n must be positive
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("sim: Intn with non-positive n")
	}
	return int(r.next() % uint64(n))
}

// Angle returns a heading in [0, 2π)
func (r *Rand) Angle() float64 {
	return r.Float64() * 2 * math.Pi
}
