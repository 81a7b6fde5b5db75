package planner

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"navcore/vectormap"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func writeMap(t *testing.T, content string) func() {
	dir := t.TempDir()
	old := vectormap.MapsDir
	vectormap.MapsDir = dir
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.txt"), []byte(content), 0o644))
	return func() { vectormap.MapsDir = old }
}

func TestPlannerFindsStraightPath(t *testing.T) {
	// Scenario 3 from spec.md §8.
	defer writeMap(t, "# empty map\n")()

	m, err := vectormap.Load("m")
	require.NoError(t, err)

	p := New(m, DefaultConfig(), nil)
	p.InitializeMap(orb.Point{0, 0})

	path := p.GetGlobalPath(orb.Point{1.0, 0})
	require.NotEmpty(t, path)
	require.True(t, len(path) == 4 || len(path) == 5, "expected 4 or 5 waypoints, got %d", len(path))

	prevDist := math.Inf(1)
	for _, k := range path {
		n := p.navMap[k]
		dist := math.Hypot(n.Loc.X()-1.0, n.Loc.Y())
		require.Less(t, dist, prevDist, "distance-to-goal must strictly decrease")
		prevDist = dist
	}
}

func TestPlannerDetectsBlockedCorridor(t *testing.T) {
	// Scenario 4 from spec.md §8.
	defer writeMap(t, "0.5 -1 0.5 1\n")()

	m, err := vectormap.Load("m")
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.ClearanceOffset = 0.2
	p := New(m, cfg, nil)
	p.InitializeMap(orb.Point{0, 0})

	path := p.GetGlobalPath(orb.Point{1, 0})
	require.Empty(t, path)
}

func TestGetGlobalPathNeverRegressesRecordedCost(t *testing.T) {
	// "The A* search never expands a node with g larger than the g already
	// recorded for it" (spec.md §8).
	defer writeMap(t, "# empty map\n")()

	m, err := vectormap.Load("m")
	require.NoError(t, err)

	p := New(m, DefaultConfig(), nil)
	p.InitializeMap(orb.Point{0, 0})
	_ = p.GetGlobalPath(orb.Point{1, 1})

	for k, n := range p.navMap {
		if n.Parent == "" {
			continue
		}
		parent := p.navMap[n.Parent]
		edgeLen := math.Hypot(n.Loc.X()-parent.Loc.X(), n.Loc.Y()-parent.Loc.Y())
		require.InDelta(t, parent.Cost+edgeLen, n.Cost, 1e-9, "node %s g-cost inconsistent with its recorded parent", k)
	}
}

func TestGetGlobalPathEmptyWithoutInitialize(t *testing.T) {
	defer writeMap(t, "# empty map\n")()
	m, err := vectormap.Load("m")
	require.NoError(t, err)

	p := New(m, DefaultConfig(), nil)
	path := p.GetGlobalPath(orb.Point{1, 1})
	require.Empty(t, path)
}

func TestExportGraphWritesDOT(t *testing.T) {
	defer writeMap(t, "# empty map\n")()
	m, err := vectormap.Load("m")
	require.NoError(t, err)

	p := New(m, DefaultConfig(), nil)
	p.InitializeMap(orb.Point{0, 0})
	_ = p.GetGlobalPath(orb.Point{0.5, 0})

	var buf bytes.Buffer
	require.NoError(t, p.ExportGraph(&buf))
	require.Contains(t, buf.String(), "digraph")
}
