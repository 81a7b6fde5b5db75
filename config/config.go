// Package config loads the navcore configuration record from YAML,
// replacing the dynamic name-lookup style of the source with an explicit
// struct (spec.md §9, "Parameter object").
package config

import (
	"os"
	"time"

	"navcore/latency"
	"navcore/particlefilter"
	"navcore/planner"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full set of options recognized at the process boundary
// (spec.md §6).
type Config struct {
	NumParticles      int     `yaml:"num_particles"`
	DShort            float64 `yaml:"d_short"`
	DLong             float64 `yaml:"d_long"`
	VarObs            float64 `yaml:"var_obs"`
	K1                float64 `yaml:"k1"`
	K2                float64 `yaml:"k2"`
	K3                float64 `yaml:"k3"`
	K4                float64 `yaml:"k4"`
	ResampleInterval  int     `yaml:"resample_interval"`
	RaySubsampleDiv   int     `yaml:"ray_subsample_divisor"`
	Resolution        float64 `yaml:"resolution"`
	ClearanceOffset   float64 `yaml:"clearance_offset"`
	SearchPadding     float64 `yaml:"search_padding"`
	ActuationDelaySec float64 `yaml:"actuation_delay"`
	ObservationDelay  float64 `yaml:"observation_delay"`
	DeltaT            float64 `yaml:"delta_t"`
}

// Default returns the recognized options at their documented defaults.
func Default() Config {
	pf := particlefilter.DefaultConfig()
	pl := planner.DefaultConfig()
	return Config{
		NumParticles:      pf.NumParticles,
		DShort:            pf.DShort,
		DLong:             pf.DLong,
		VarObs:            pf.VarObs,
		K1:                pf.K1,
		K2:                pf.K2,
		K3:                pf.K3,
		K4:                pf.K4,
		ResampleInterval:  pf.ResampleInterval,
		RaySubsampleDiv:   pf.RaySubsampleDivisor,
		Resolution:        pl.Resolution,
		ClearanceOffset:   pl.ClearanceOffset,
		SearchPadding:     pl.SearchPadding,
		ActuationDelaySec: 0.1,
		ObservationDelay:  0.1,
		DeltaT:            0.05,
	}
}

// Load reads and parses a YAML configuration file at path, starting from
// Default and overriding any fields the file sets. A malformed or missing
// file is a boundary error: it fails fast, per spec.md §7.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: reading %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config: parsing %s", path)
	}
	return cfg, nil
}

// ParticleFilterConfig projects the relevant fields into particlefilter.Config.
func (c Config) ParticleFilterConfig() particlefilter.Config {
	return particlefilter.Config{
		NumParticles:         c.NumParticles,
		DShort:               c.DShort,
		DLong:                c.DLong,
		VarObs:               c.VarObs,
		K1:                   c.K1,
		K2:                   c.K2,
		K3:                   c.K3,
		K4:                   c.K4,
		ResampleInterval:     c.ResampleInterval,
		RaySubsampleDivisor:  c.RaySubsampleDiv,
	}
}

// PlannerConfig projects the relevant fields into planner.Config.
func (c Config) PlannerConfig() planner.Config {
	return planner.Config{
		Resolution:      c.Resolution,
		ClearanceOffset: c.ClearanceOffset,
		SearchPadding:   c.SearchPadding,
	}
}

// LatencyConfig projects the relevant fields into latency.Config.
func (c Config) LatencyConfig() latency.Config {
	return latency.Config{
		ActuationDelay:   durationFromSeconds(c.ActuationDelaySec),
		ObservationDelay: durationFromSeconds(c.ObservationDelay),
		ControlPeriod:    durationFromSeconds(c.DeltaT),
	}
}

func durationFromSeconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
