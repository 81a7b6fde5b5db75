package particlefilter

import (
	"math"
	"sync"

	"navcore/pose"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// sensorMoveMin/sensorMoveMax gate ObserveLaser per spec.md §4.4: the
// filter must have moved more than sensorMoveMin but less than sensorMoveMax
// since its last sensor update, to suppress initialization jitter and
// teleports.
const (
	sensorMoveMin = 0.1
	sensorMoveMax = 1.0
)

// ObserveLaser reweights every particle against ranges if the filter has
// moved between sensorMoveMin and sensorMoveMax meters since its last
// sensor update. Every cfg.ResampleInterval-th successful update triggers a
// Resample.
func (f *Filter) ObserveLaser(ranges []float64, rangeMin, rangeMax, angleMin, angleMax float64) {
	if !f.odomInitialized || len(f.particles) == 0 {
		return
	}

	dist := pose.Distance(f.prevOdom, f.lastUpdateLoc)
	if dist <= sensorMoveMin || dist >= sensorMoveMax {
		return
	}

	snapshot, err := cloneParticles(f.particles)
	if err != nil {
		f.log.Warn("falling back to unsnapshotted particle update", zap.Error(err))
		snapshot = f.particles
	}

	logWeights := make([]float64, len(snapshot))
	var wg sync.WaitGroup
	wg.Add(len(snapshot))
	for i := range snapshot {
		i := i
		go func() {
			defer wg.Done()
			logWeights[i] = f.sensorUpdate(snapshot[i].Pose, ranges, rangeMin, rangeMax, angleMin, angleMax)
		}()
	}
	wg.Wait()

	maxLogWeight := math.Inf(-1)
	for i := range f.particles {
		f.particles[i].LogWeight += logWeights[i]
		if f.particles[i].LogWeight > maxLogWeight {
			maxLogWeight = f.particles[i].LogWeight
		}
	}
	f.maxLogWeight = maxLogWeight
	f.lastUpdateLoc = f.prevOdom

	f.updatesSinceResample++
	if f.updatesSinceResample >= f.cfg.ResampleInterval {
		f.Resample()
		f.updatesSinceResample = 0
	}
}

// sensorUpdate computes one particle's log-likelihood contribution for a
// scan, by ray-casting a subsampled set of bearings from the particle's
// laser origin and comparing predicted to measured range. It performs no
// RNG calls and does not mutate f, so it's safe to run concurrently across
// particles (spec.md §5).
func (f *Filter) sensorUpdate(p pose.Pose2D, ranges []float64, rangeMin, rangeMax, angleMin, angleMax float64) float64 {
	numRays := len(ranges) / f.cfg.RaySubsampleDivisor
	if numRays <= 0 {
		return 0
	}
	stride := len(ranges) / numRays

	lx, ly := p.LaserOrigin()
	origin := orb.Point{lx, ly}

	var logSum float64
	for i := 0; i < numRays; i++ {
		measured := ranges[stride*i]
		if measured > 0.95*rangeMax || measured < 1.05*rangeMin {
			continue
		}

		rayAngle := p.Theta + angleMin + float64(stride*i)/float64(len(ranges)-1)*(angleMax-angleMin)
		_, predicted, ok := f.m.CastRay(origin, rayAngle, rangeMin, rangeMax)
		if !ok || predicted < rangeMin || predicted > rangeMax {
			continue
		}

		d := measured - predicted
		d = math.Min(d, f.cfg.DLong)
		d = math.Max(d, -f.cfg.DShort)
		logSum += -(d * d) / f.cfg.VarObs
	}
	return logSum
}
