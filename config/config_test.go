package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_particles: 200\nresolution: 0.5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 200, cfg.NumParticles)
	require.Equal(t, 0.5, cfg.Resolution)
	require.Equal(t, Default().ClearanceOffset, cfg.ClearanceOffset) // untouched field keeps its default
}

func TestLoadMissingFileIsBoundaryError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestProjectionsRoundTripDefaults(t *testing.T) {
	cfg := Default()
	require.Equal(t, cfg.NumParticles, cfg.ParticleFilterConfig().NumParticles)
	require.Equal(t, cfg.Resolution, cfg.PlannerConfig().Resolution)
	require.Equal(t, cfg.DeltaT, cfg.LatencyConfig().ControlPeriod.Seconds())
}
