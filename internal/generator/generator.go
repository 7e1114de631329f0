// Package generator draws pseudo-random commit counts.
package generator

import (
	"math/rand"
	"time"
)

// Generator produces uniformly distributed counts from one sequential stream.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed, for reproducible plans.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Between returns an integer in [lo, hi]. It always consumes exactly one
// draw from the stream, even when lo == hi.
func (g *Generator) Between(lo, hi int) int {
	return lo + g.rnd.Intn(hi-lo+1)
}
