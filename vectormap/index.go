package vectormap

import (
	"math"

	"github.com/paulmach/orb"
)

type gridCell struct{ xi, yi int }

// Index buckets a Map's segments into a uniform grid so Intersect and
// CastRay can test a query against only the segments near it, instead of
// scanning the whole map. Grounded on the teacher's way/node grid index,
// adapted from lat/lon degree cells keyed on OSM nodes to Cartesian meter
// cells covering each Segment's bounding box.
type Index struct {
	cellSize float64
	cells    map[gridCell][]int
}

// BuildIndex buckets m's segments into cellSize-meter grid cells and
// attaches the index to m; subsequent Intersect/CastRay calls use it
// automatically. Rebuilding is cheap and safe to call again if
// cellSize should change.
func (m *Map) BuildIndex(cellSize float64) {
	idx := &Index{cellSize: cellSize, cells: make(map[gridCell][]int)}
	for i, s := range m.Segments {
		for _, cell := range idx.cellsForSegment(s) {
			idx.cells[cell] = append(idx.cells[cell], i)
		}
	}
	m.index = idx
}

func (idx *Index) cellFor(p orb.Point) gridCell {
	return gridCell{
		xi: int(math.Floor(p.X() / idx.cellSize)),
		yi: int(math.Floor(p.Y() / idx.cellSize)),
	}
}

// cellsForSegment returns every cell the segment's bounding box touches.
// Map segments are typically short relative to a map's extent, so walking
// the bounding box in cell steps is cheap.
func (idx *Index) cellsForSegment(s Segment) []gridCell {
	c0, c1 := idx.cellFor(s.P0), idx.cellFor(s.P1)
	minXi, maxXi := minInt(c0.xi, c1.xi), maxInt(c0.xi, c1.xi)
	minYi, maxYi := minInt(c0.yi, c1.yi), maxInt(c0.yi, c1.yi)

	cells := make([]gridCell, 0, (maxXi-minXi+1)*(maxYi-minYi+1))
	for xi := minXi; xi <= maxXi; xi++ {
		for yi := minYi; yi <= maxYi; yi++ {
			cells = append(cells, gridCell{xi, yi})
		}
	}
	return cells
}

// candidatesNear returns the indices into segments of every segment sharing
// a grid cell with query's bounding box: a superset of what might intersect
// or lie near it.
func (idx *Index) candidatesNear(query Segment) []int {
	seen := make(map[int]bool)
	var out []int
	for _, cell := range idx.cellsForSegment(query) {
		for _, i := range idx.cells[cell] {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
