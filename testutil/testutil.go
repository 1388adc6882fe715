// Package testutil provides testing utilities for propgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random number generator and helpers
// for generating synthetic property corpora and computing exact query
// results by brute force.
package testutil

import (
	"math/rand"
	"sync"

	"github.com/propgo/propgo/property"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int64Range returns a pseudo-random int64 in [minVal, maxVal].
func (r *RNG) Int64Range(minVal, maxVal int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return minVal + r.rand.Int63n(maxVal-minVal+1)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Bool returns a pseudo-random boolean with probability p of being true.
func (r *RNG) Bool(p float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64() < p
}

// Properties generates num random properties with realistic value
// distributions. Locks only once per call.
func (r *RNG) Properties(num int) []property.Property {
	r.mu.Lock()
	defer r.mu.Unlock()

	props := make([]property.Property, num)
	for i := range props {
		props[i] = property.Property{
			Bedrooms:     1 + r.rand.Intn(6),
			Bathrooms:    float64(1+r.rand.Intn(8)) / 2,
			Price:        50_000 + r.rand.Int63n(950_001),
			YearBuilt:    1900 + r.rand.Intn(126),
			Latitude:     32.5 + r.rand.Float64(),
			Longitude:    -97.5 + r.rand.Float64(),
			HasBasement:  r.rand.Float64() < 0.3,
			HasFireplace: r.rand.Float64() < 0.5,
			HasAttic:     r.rand.Float64() < 0.4,
			HasGarage:    r.rand.Float64() < 0.7,
		}
	}
	return props
}

// Store generates a property store with num random properties.
func (r *RNG) Store(num int) *property.Store {
	return property.NewStore(r.Properties(num))
}

// ExactMatch returns the IDs of all properties in props that keep
// satisfies, in ascending order. It is the brute-force ground truth for
// index queries.
func ExactMatch(props []property.Property, keep func(property.Property) bool) []uint32 {
	var ids []uint32
	for _, p := range props {
		if keep(p) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
