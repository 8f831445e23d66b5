// Package randutil provides the non-cryptographic random source used by generator tools.
// Tests inject a seeded source for reproducible output.
package randutil

import (
	"math/rand/v2"
	"sync"
)

// Source is the subset of math/rand/v2 used by tools.
type Source interface {
	// IntN returns a uniform int in [0, n). It panics if n <= 0.
	IntN(n int) int
	// Shuffle pseudo-randomizes the order of n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

type global struct{}

func (global) IntN(n int) int                     { return rand.IntN(n) }
func (global) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Global returns a Source backed by the goroutine-safe top-level math/rand/v2 generator.
func Global() Source { return global{} }

// Seeded is a deterministic Source safe for concurrent use.
type Seeded struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded returns a deterministic Source for seed.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Seeded) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

func (s *Seeded) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Shuffle(n, swap)
}

// Between returns a uniform int in [lo, hi].
func Between(src Source, lo, hi int) int {
	return lo + src.IntN(hi-lo+1)
}

// Pick returns a uniformly chosen element of items. items must not be empty.
func Pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}
