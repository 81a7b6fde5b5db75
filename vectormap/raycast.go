package vectormap

import (
	"math"

	"github.com/paulmach/orb"
)

// CastRay returns the nearest map intersection along a ray from origin at
// angle, searched between rangeMin and rangeMax, or ok=false if no map
// segment intersects within that band. This mirrors the original particle
// filter's GetPredictedPointCloud inner loop: build the ray as a segment
// from the range_min point to the range_max point, then take the closest
// intersection to origin among all map segments.
func (m *Map) CastRay(origin orb.Point, angle, rangeMin, rangeMax float64) (point orb.Point, dist float64, ok bool) {
	ray := Segment{
		P0: orb.Point{origin.X() + rangeMin*math.Cos(angle), origin.Y() + rangeMin*math.Sin(angle)},
		P1: orb.Point{origin.X() + rangeMax*math.Cos(angle), origin.Y() + rangeMax*math.Sin(angle)},
	}

	best := math.Inf(1)
	var bestPoint orb.Point
	found := false
	for _, i := range m.segmentsToCheck(ray) {
		s := m.Segments[i]
		p, intersects := segmentIntersection(ray, s)
		if !intersects {
			continue
		}
		d := math.Hypot(p.X()-origin.X(), p.Y()-origin.Y())
		if d < best {
			best = d
			bestPoint = p
			found = true
		}
	}
	if !found {
		return orb.Point{}, 0, false
	}
	return bestPoint, best, true
}
