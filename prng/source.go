// Package prng provides a seeded, reproducible random source for Gaussian
// and uniform draws, used exclusively by the particle filter's particle
// initialization, motion model, and resampling step.
package prng

import (
	"gonum.org/v1/gonum/stat/distuv"
	"math/rand"
)

// Source is a seeded random source. Given equal seeds, two Sources produce
// identical Gaussian/uniform streams.
type Source struct {
	rng *rand.Rand
}

// New returns a Source seeded deterministically from seed.
func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Gaussian draws a sample from N(mu, sigma^2). sigma is a standard
// deviation, not a variance.
func (s *Source) Gaussian(mu, sigma float64) float64 {
	d := distuv.Normal{Mu: mu, Sigma: sigma, Src: s.rng}
	return d.Rand()
}

// Uniform draws a sample from the uniform distribution on [a, b).
func (s *Source) Uniform(a, b float64) float64 {
	d := distuv.Uniform{Min: a, Max: b, Src: s.rng}
	return d.Rand()
}
