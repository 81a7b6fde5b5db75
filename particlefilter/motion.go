package particlefilter

import (
	"math"

	"navcore/pose"

	"go.uber.org/zap"
)

// teleportBound is the sanity bound on per-tick odometry translation, per
// spec.md §4.4: a reported translation exceeding this is treated as a
// teleport/initialization event rather than propagated.
const teleportBound = 1.0

// ObserveOdometry propagates every particle by the motion model, or
// re-baselines without propagating if this is the first call after
// Initialize or the reported translation exceeds teleportBound.
func (f *Filter) ObserveOdometry(odom pose.Pose2D) {
	dx, dy := odom.X-f.prevOdom.X, odom.Y-f.prevOdom.Y
	transNorm := math.Hypot(dx, dy)

	if !f.odomInitialized || transNorm > teleportBound {
		firstCall := !f.odomInitialized
		f.resetOdomVariables(odom)
		f.odomInitialized = true
		f.log.Debug("odometry baseline reset",
			zap.Bool("first_call", firstCall),
			zap.Float64("translation", transNorm),
		)
		return
	}

	angleDiff := pose.AngleDiff(odom.Theta, f.prevOdom.Theta)
	for i := range f.particles {
		f.updateParticleLocation(&f.particles[i], dx, dy, angleDiff)
	}
	f.prevOdom = odom
}

// updateParticleLocation applies the motion model to one particle: rotate
// the odometry-frame translation delta into the particle's map-frame
// heading basis, add Gaussian noise, and accumulate.
func (f *Filter) updateParticleLocation(p *Particle, dx, dy, angleDiff float64) {
	mx, my := p.Pose.RotateOdomToMap(dx, dy, f.prevOdom.Theta)

	transNorm := math.Hypot(dx, dy)
	sigmaT := f.cfg.K1*transNorm + f.cfg.K2*math.Abs(angleDiff)
	sigmaR := f.cfg.K3*transNorm + f.cfg.K4*math.Abs(angleDiff)

	nx := f.rng.Gaussian(0, sigmaT)
	ny := f.rng.Gaussian(0, sigmaT)
	nr := f.rng.Gaussian(0, sigmaR)

	p.Pose = pose.New(
		p.Pose.X+mx+nx,
		p.Pose.Y+my+ny,
		p.Pose.Theta+angleDiff+nr,
	)
}
