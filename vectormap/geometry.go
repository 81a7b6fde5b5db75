package vectormap

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Hit is the result of a successful Intersect query.
type Hit struct {
	Point orb.Point
	// Distance is the Euclidean distance from the query segment's start
	// point to Point, used to break ties among multiple map hits.
	Distance float64
}

// Intersect returns the nearest intersection of query with any map segment,
// or ok=false if none intersects. Ties across multiple map hits are broken
// by the hit closest to query.P0 (Euclidean distance).
func (m *Map) Intersect(query Segment) (hit Hit, ok bool) {
	best := math.Inf(1)
	for _, i := range m.segmentsToCheck(query) {
		s := m.Segments[i]
		p, intersects := segmentIntersection(query, s)
		if !intersects {
			continue
		}
		d := planar.Distance(query.P0, p)
		if d < best {
			best = d
			hit = Hit{Point: p, Distance: d}
			ok = true
		}
	}
	return hit, ok
}

// segmentIntersection implements the standard parametric line-line
// intersection test with the determinant test for parallel/degenerate
// input. Returns ok=false if the segments are parallel or the intersection
// falls outside either segment's [0,1] parameter range.
func segmentIntersection(a, b Segment) (orb.Point, bool) {
	ax, ay := a.dx(), a.dy()
	bx, by := b.dx(), b.dy()

	denom := ax*by - ay*bx
	if math.Abs(denom) < 1e-12 {
		// Parallel or degenerate (zero-length) segment: no hit.
		return orb.Point{}, false
	}

	ex, ey := b.P0.X()-a.P0.X(), b.P0.Y()-a.P0.Y()
	t := (ex*by - ey*bx) / denom
	u := (ex*ay - ey*ax) / denom

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return orb.Point{}, false
	}

	return orb.Point{a.P0.X() + t*ax, a.P0.Y() + t*ay}, true
}

// MinDistanceFromLineToMap returns the minimum perpendicular distance from
// any map segment's endpoint or interior point to the query segment. If the
// query segment crosses a map segment the distance is 0 (they share an
// interior point).
//
// Unlike Intersect, this always scans every segment rather than consulting
// an Index: the nearest segment to query can sit in a grid cell the query's
// own bounding box never touches, so cell-local candidates alone could miss
// it.
func (m *Map) MinDistanceFromLineToMap(query Segment) float64 {
	best := math.Inf(1)
	for _, s := range m.Segments {
		if _, intersects := segmentIntersection(query, s); intersects {
			return 0
		}
		for _, p := range [2]orb.Point{s.P0, s.P1} {
			if d := planar.DistanceFromSegment(query.P0, query.P1, p); d < best {
				best = d
			}
		}
		for _, p := range [2]orb.Point{query.P0, query.P1} {
			if d := planar.DistanceFromSegment(s.P0, s.P1, p); d < best {
				best = d
			}
		}
	}
	return best
}

// Normal returns the unit normal of a segment, or ok=false if the segment is
// degenerate (zero-length), per spec.md §9's cushion-line construction note.
func Normal(s Segment) (nx, ny float64, ok bool) {
	dx, dy := s.dx(), s.dy()
	length := math.Hypot(dx, dy)
	if length < 1e-12 {
		return 0, 0, false
	}
	return -dy / length, dx / length, true
}

// OffsetSegment returns the segment parallel to s, displaced by offset
// meters along s's unit normal.
func OffsetSegment(s Segment, offset float64) (Segment, bool) {
	nx, ny, ok := Normal(s)
	if !ok {
		return Segment{}, false
	}
	return Segment{
		P0: orb.Point{s.P0.X() + nx*offset, s.P0.Y() + ny*offset},
		P1: orb.Point{s.P1.X() + nx*offset, s.P1.Y() + ny*offset},
	}, true
}
