// Package vectormap loads and queries the line-segment prior map shared
// read-only by the localizer and the global planner.
package vectormap

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Segment is a 2D line segment in map frame, in meters.
type Segment struct {
	P0, P1 orb.Point
}

func (s Segment) dx() float64 { return s.P1.X() - s.P0.X() }
func (s Segment) dy() float64 { return s.P1.Y() - s.P0.Y() }

// Map is an immutable ordered sequence of line segments. It is safe for
// concurrent read-only use by any number of goroutines once Load returns.
type Map struct {
	Segments []Segment

	// index accelerates segment queries once BuildIndex has been called.
	// Left nil, queries fall back to a full scan of Segments.
	index *Index
}

// segmentsToCheck returns the segment indices Intersect and CastRay should
// test against query: every segment if no index has been built, or just the
// index's candidates otherwise. MinDistanceFromLineToMap deliberately does
// not use this — see its doc comment.
func (m *Map) segmentsToCheck(query Segment) []int {
	if m.index == nil {
		all := make([]int, len(m.Segments))
		for i := range all {
			all[i] = i
		}
		return all
	}
	return m.index.candidatesNear(query)
}

// MapsDir is the directory vector map names resolve against, per spec.md §6
// ("maps/<name>.txt"). Overridable for tests and for callers that keep maps
// elsewhere.
var MapsDir = "maps"

// defaultIndexCellSize buckets a loaded map's segments into 1m grid cells,
// a few multiples of the planner's default lattice resolution (0.25m) —
// coarse enough to keep cell counts low for typical maps, fine enough that
// Intersect/CastRay's bounding-box queries only pull in a handful of
// candidates instead of the whole map.
const defaultIndexCellSize = 1.0

// Load reads "<MapsDir>/<name>.txt". Each non-empty, non-comment line is
// "x0 y0 x1 y1" (four whitespace-separated decimals, meters, map frame).
// Lines starting with '#' are comments. Every malformed line is collected
// and returned together via multierr, rather than failing on the first one.
func Load(name string) (*Map, error) {
	path := filepath.Join(MapsDir, name+".txt")
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "vectormap: opening map %q", path)
	}
	defer f.Close()

	var segs []Segment
	var errs error
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			errs = multierr.Append(errs, fmt.Errorf("%s:%d: expected 4 fields, got %d", path, lineNo, len(fields)))
			continue
		}
		vals := make([]float64, 4)
		bad := false
		for i, f := range fields {
			v, parseErr := strconv.ParseFloat(f, 64)
			if parseErr != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s:%d: field %d: %w", path, lineNo, i, parseErr))
				bad = true
				continue
			}
			vals[i] = v
		}
		if bad {
			continue
		}
		segs = append(segs, Segment{
			P0: orb.Point{vals[0], vals[1]},
			P1: orb.Point{vals[2], vals[3]},
		})
	}
	if scanErr := scanner.Err(); scanErr != nil {
		errs = multierr.Append(errs, errors.Wrapf(scanErr, "vectormap: reading %q", path))
	}
	if errs != nil {
		return nil, errors.Wrapf(errs, "vectormap: malformed map %q", path)
	}
	m := &Map{Segments: segs}
	m.BuildIndex(defaultIndexCellSize)
	return m, nil
}

// Empty returns a Map with no segments, useful for scenario tests that need
// an obstacle-free lattice.
func Empty() *Map { return &Map{} }
