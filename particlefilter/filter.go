// Package particlefilter implements the particle-filter localizer (C4):
// motion-model propagation against odometry, sensor-model reweighting
// against a laser scan and the vector map, low-variance resampling, and a
// weighted-mean pose estimate.
package particlefilter

import (
	"math"

	"navcore/pose"
	"navcore/prng"
	"navcore/telemetry"
	"navcore/vectormap"

	"github.com/mitchellh/copystructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Particle is a pose hypothesis weighted by a log-likelihood. A particle's
// log-weight is only meaningful relative to its generation's maximum; it is
// not comparable across resampling events.
type Particle struct {
	Pose      pose.Pose2D
	LogWeight float64
}

// Config holds the tunable parameters named in spec.md §6.
type Config struct {
	NumParticles     int
	DShort, DLong    float64
	VarObs           float64
	K1, K2, K3, K4   float64
	ResampleInterval int
	// RaySubsampleDivisor controls how many rays the sensor model casts per
	// scan: numRays = len(ranges) / RaySubsampleDivisor. spec.md §9 calls
	// this out as a tunable; the original hardcodes 10.
	RaySubsampleDivisor int
}

// DefaultConfig returns the parameter defaults named in spec.md §4 and §6.
func DefaultConfig() Config {
	return Config{
		NumParticles:        50,
		DShort:              0.5,
		DLong:               0.5,
		VarObs:              1.0,
		K1:                  0.50,
		K2:                  0.25,
		K3:                  0.50,
		K4:                  0.75,
		ResampleInterval:    5,
		RaySubsampleDivisor: 10,
	}
}

// Filter owns the particle set, the map, the RNG, and the per-instance
// state the original implementation kept as file-scope globals (spec.md
// §9's "module-level mutable state" note).
type Filter struct {
	cfg Config
	log *telemetry.Logger

	particles []Particle
	m         *vectormap.Map
	rng       *prng.Source

	prevOdom        pose.Pose2D
	odomInitialized bool

	lastUpdateLoc        pose.Pose2D
	updatesSinceResample int
	maxLogWeight         float64
}

// New returns a Filter with no particles and no map loaded. Call Initialize
// before any observation call.
func New(cfg Config, seed int64, log *telemetry.Logger) *Filter {
	if log == nil {
		log = telemetry.NewNop()
	}
	return &Filter{
		cfg: cfg,
		log: log,
		rng: prng.New(seed),
	}
}

// Initialize loads mapName (resolving to "maps/<mapName>.txt") and seeds
// cfg.NumParticles particles from independent Gaussians around at: N(at.X,
// 0.25) and N(at.Y, 0.25) on position, N(at.Theta, pi/6) on heading, all
// with log-weight 0.
func (f *Filter) Initialize(mapName string, at pose.Pose2D) error {
	m, err := vectormap.Load(mapName)
	if err != nil {
		return errors.Wrapf(err, "particlefilter: initializing with map %q", mapName)
	}
	f.m = m
	f.particles = make([]Particle, f.cfg.NumParticles)
	for i := range f.particles {
		f.particles[i] = Particle{
			Pose: pose.New(
				f.rng.Gaussian(at.X, 0.25),
				f.rng.Gaussian(at.Y, 0.25),
				f.rng.Gaussian(at.Theta, math.Pi/6),
			),
			LogWeight: 0,
		}
	}
	f.odomInitialized = false
	f.resetOdomVariables(at)
	f.maxLogWeight = 0
	f.log.Info("particle filter initialized",
		zap.String("map", mapName),
		zap.Int("particles", f.cfg.NumParticles),
	)
	return nil
}

func (f *Filter) resetOdomVariables(at pose.Pose2D) {
	f.prevOdom = at
	f.lastUpdateLoc = at
	f.updatesSinceResample = 0
}

// Particles returns a defensive copy of the current particle set.
func (f *Filter) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

// GetLocation returns the weighted mean pose estimate: the weighted mean of
// particle positions and headings, weights exp(logw - maxLogWeight). As
// spec.md §4.4 and §9 note, this is a direct arithmetic mean of headings,
// not a circular mean — see DESIGN.md's Open Question resolution. ok is
// false if there are no particles or the total weight is zero.
func (f *Filter) GetLocation() (pose.Pose2D, bool) {
	if len(f.particles) == 0 {
		return pose.Pose2D{}, false
	}
	var sumX, sumY, sumTheta, sumW float64
	for _, p := range f.particles {
		w := math.Exp(p.LogWeight - f.maxLogWeight)
		sumX += p.Pose.X * w
		sumY += p.Pose.Y * w
		sumTheta += p.Pose.Theta * w
		sumW += w
	}
	if sumW == 0 {
		return pose.Pose2D{}, false
	}
	return pose.New(sumX/sumW, sumY/sumW, sumTheta/sumW), true
}

// cloneParticles returns a deep copy of the particle slice via
// copystructure, used by ObserveLaser to take a point-in-time snapshot
// before fanning the per-particle sensor update out across goroutines
// (spec.md §5; SPEC_FULL.md §4.4).
func cloneParticles(particles []Particle) ([]Particle, error) {
	cloned, err := copystructure.Copy(particles)
	if err != nil {
		return nil, errors.Wrap(err, "particlefilter: cloning particle snapshot")
	}
	return cloned.([]Particle), nil
}
