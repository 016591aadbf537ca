// Package random wraps the seedable generator shared by the series generator
// and the live row simulator.
package random

import (
	"math/rand/v2"
	"time"
)

// Source is the only randomness the generators depend on. *rand.Rand
// satisfies it.
type Source interface {
	Float64() float64
}

// New returns a PCG-backed generator. A zero seed picks one from the wall
// clock, so two runs differ unless a seed is configured.
func New(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Uniform draws from [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}
