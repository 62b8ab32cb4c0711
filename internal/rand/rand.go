// Package rand provides the seedable random source used by the fuzzing core.
package rand

import (
	"fmt"
	mrand "math/rand/v2"
	"time"
)

// Rand is a seedable, splittable pseudo-random generator.
type Rand interface {
	// Next returns a uniformly distributed 64-bit value.
	Next() uint64
	// Below returns a value in [0, n). n must be nonzero.
	Below(n uint64) uint64
	// BelowOrZero returns 0 when n is 0, Below(n) otherwise.
	BelowOrZero(n uint64) uint64
	// Between returns a value in [lo, hi].
	Between(lo, hi uint64) uint64
	// Coinflip returns true with probability p.
	Coinflip(p float64) bool
	// Choose returns an index in [0, n). n must be positive.
	Choose(n int) int
	// SetSeed resets the generator.
	SetSeed(seed uint64)
	// Split derives an independent generator from the current stream.
	Split() Rand
}

// seedMix decorrelates the two PCG seed halves.
const seedMix = 0x9e3779b97f4a7c15

// StdRand is the default Rand, backed by a PCG generator.
type StdRand struct {
	pcg *mrand.PCG
	r   *mrand.Rand
}

// New creates a StdRand with a fixed seed. Equal seeds give equal sequences.
func New(seed uint64) *StdRand {
	pcg := mrand.NewPCG(seed, seed^seedMix)

	return &StdRand{pcg: pcg, r: mrand.New(pcg)}
}

// NewFromTime creates a StdRand seeded from the wall clock.
func NewFromTime() *StdRand {
	return New(uint64(time.Now().UnixNano()))
}

// Next implements Rand.
func (s *StdRand) Next() uint64 {
	return s.r.Uint64()
}

// Below implements Rand.
func (s *StdRand) Below(n uint64) uint64 {
	if n == 0 {
		panic("rand: Below called with zero bound")
	}

	return s.r.Uint64N(n)
}

// BelowOrZero implements Rand.
func (s *StdRand) BelowOrZero(n uint64) uint64 {
	if n == 0 {
		return 0
	}

	return s.r.Uint64N(n)
}

// Between implements Rand.
func (s *StdRand) Between(lo, hi uint64) uint64 {
	if hi < lo {
		panic(fmt.Sprintf("rand: Between called with lo %d > hi %d", lo, hi))
	}

	span := hi - lo
	if span == ^uint64(0) {
		return s.Next()
	}

	return lo + s.r.Uint64N(span+1)
}

// Coinflip implements Rand.
func (s *StdRand) Coinflip(p float64) bool {
	return s.r.Float64() < p
}

// Choose implements Rand.
func (s *StdRand) Choose(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("rand: Choose called with non-positive bound %d", n))
	}

	return s.r.IntN(n)
}

// SetSeed implements Rand.
func (s *StdRand) SetSeed(seed uint64) {
	s.pcg.Seed(seed, seed^seedMix)
}

// Split implements Rand.
func (s *StdRand) Split() Rand {
	pcg := mrand.NewPCG(s.Next(), s.Next())

	return &StdRand{pcg: pcg, r: mrand.New(pcg)}
}
