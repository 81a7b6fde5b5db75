package vectormap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func unitSquare() *Map {
	return &Map{Segments: []Segment{
		{P0: orb.Point{0, 0}, P1: orb.Point{1, 0}},
		{P0: orb.Point{1, 0}, P1: orb.Point{1, 1}},
		{P0: orb.Point{1, 1}, P1: orb.Point{0, 1}},
		{P0: orb.Point{0, 1}, P1: orb.Point{0, 0}},
	}}
}

func TestLoadParsesCommentsAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	old := MapsDir
	MapsDir = dir
	defer func() { MapsDir = old }()

	content := "# a room\n0 0 1 0\n\n1 0 1 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "room.txt"), []byte(content), 0o644))

	m, err := Load("room")
	require.NoError(t, err)
	require.Len(t, m.Segments, 2)
}

func TestLoadReportsAllMalformedLines(t *testing.T) {
	dir := t.TempDir()
	old := MapsDir
	MapsDir = dir
	defer func() { MapsDir = old }()

	content := "0 0 1 0\nbad line\n1 0 1 x\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"), []byte(content), 0o644))

	_, err := Load("bad")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.txt:2:")
	require.Contains(t, err.Error(), "bad.txt:3:")
}

func TestIntersectRaySquare(t *testing.T) {
	m := unitSquare()
	query := Segment{P0: orb.Point{0.5, 0.5}, P1: orb.Point{2, 0.5}}
	hit, ok := m.Intersect(query)
	require.True(t, ok)
	require.InDelta(t, 1.0, hit.Point.X(), 1e-9)
	require.InDelta(t, 0.5, hit.Point.Y(), 1e-9)
}

func TestIntersectParallelNoHit(t *testing.T) {
	m := &Map{Segments: []Segment{{P0: orb.Point{0, 0}, P1: orb.Point{1, 0}}}}
	query := Segment{P0: orb.Point{0, 1}, P1: orb.Point{1, 1}}
	_, ok := m.Intersect(query)
	require.False(t, ok)
}

func TestCastRayUnitSquareScenario(t *testing.T) {
	// Scenario 1 from spec.md §8: particle at (0.5, 0.5, 0) facing +X, laser
	// origin offset 0.2m forward, predicted range ~= 0.3m, hit point ~= (1,0.5).
	m := unitSquare()
	origin := orb.Point{0.7, 0.5} // 0.5 + 0.2 laser offset along heading 0
	point, dist, ok := m.CastRay(origin, 0, 0.02, 10)
	require.True(t, ok)
	require.InDelta(t, 1.0, point.X(), 1e-6)
	require.InDelta(t, 0.5, point.Y(), 1e-6)
	require.InDelta(t, 0.3, dist, 1e-6)
}

func TestMinDistanceFromLineToMap(t *testing.T) {
	m := &Map{Segments: []Segment{{P0: orb.Point{0.5, -1}, P1: orb.Point{0.5, 1}}}}
	query := Segment{P0: orb.Point{0, 0}, P1: orb.Point{1, 0}}
	d := m.MinDistanceFromLineToMap(query)
	require.InDelta(t, 0.0, d, 1e-9) // the obstacle crosses the query segment
}

func TestOffsetSegmentDegenerate(t *testing.T) {
	_, ok := OffsetSegment(Segment{P0: orb.Point{1, 1}, P1: orb.Point{1, 1}}, 0.3)
	require.False(t, ok)
}

func TestOffsetSegmentParallel(t *testing.T) {
	s := Segment{P0: orb.Point{0, 0}, P1: orb.Point{1, 0}}
	off, ok := OffsetSegment(s, 0.3)
	require.True(t, ok)
	require.InDelta(t, 0.0, off.P0.X(), 1e-9)
	require.InDelta(t, 0.3, off.P0.Y(), 1e-9)
}
