package particlefilter

import (
	"math"

	"go.uber.org/zap"
)

// Resample implements systematic low-variance resampling: normalize
// log-weights by the generation maximum, exponentiate, form the cumulative
// sum, and emit exactly len(f.particles) particles from a single uniform
// draw stepped by S/N through the cumulative array. If the total weight is
// zero, Resample is a no-op (spec.md §4.4).
func (f *Filter) Resample() {
	n := len(f.particles)
	if n == 0 {
		return
	}

	weights := make([]float64, n)
	cumulative := make([]float64, n)
	var sum float64
	for i := range f.particles {
		f.particles[i].LogWeight -= f.maxLogWeight
		w := math.Exp(f.particles[i].LogWeight)
		weights[i] = w
		sum += w
		cumulative[i] = sum
	}
	if sum == 0 {
		return
	}

	step := sum / float64(n)
	u := f.rng.Uniform(0, step)

	newParticles := make([]Particle, 0, n)
	for i := 0; i < n; i++ {
		for u < cumulative[i] {
			newParticles = append(newParticles, f.particles[i])
			u += step
		}
	}
	// Floating-point rounding can leave the walk one short or over by one;
	// clamp to exactly n by trimming or padding with the last particle.
	for len(newParticles) < n {
		newParticles = append(newParticles, f.particles[n-1])
	}
	if len(newParticles) > n {
		newParticles = newParticles[:n]
	}

	f.particles = newParticles
	f.maxLogWeight = 0
	f.log.Debug("resampled", zap.Int("count", len(f.particles)))
}
