// Package planner implements the global grid planner (C5): a uniform 2D
// lattice rooted at the start location, searched with A* for a shortest
// collision-free path through the vector map, with clearance-validated
// edges.
package planner

import (
	"fmt"
	"math"

	"navcore/telemetry"
	"navcore/vectormap"

	"github.com/dominikbraun/graph"
	"github.com/paulmach/orb"
)

// Neighbor is a king-move offset descriptor for a grid node.
type Neighbor struct {
	Index        [2]int
	Key          string
	EdgeLength   float64
	DirectionTag string
}

// Node is a materialized lattice node: its map-frame location, accumulated
// path cost, parent key, and lazily populated neighbor list.
type Node struct {
	Index     [2]int
	Loc       orb.Point
	Cost      float64
	Parent    string
	Neighbors []Neighbor
	Key       string

	neighborsComputed bool
}

var kingMoves = []struct {
	di, dj int
	tag    string
}{
	{0, 1, "N"}, {1, 1, "NE"}, {1, 0, "E"}, {1, -1, "SE"},
	{0, -1, "S"}, {-1, -1, "SW"}, {-1, 0, "W"}, {-1, 1, "NW"},
}

// Config holds the tunable parameters named in spec.md §6.
type Config struct {
	Resolution      float64 // meters between adjacent lattice nodes
	ClearanceOffset float64 // meters; car half-width plus safety margin

	// SearchPadding bounds each GetGlobalPath search to the bounding box of
	// its start and goal, expanded by this many meters on every side. The
	// source's real-time planner searches a local region around the robot
	// rather than the unbounded map; without some bound an A* search facing
	// a short blocking obstacle would happily wander around its far end no
	// matter how long a detour that took, which defeats the point of
	// detecting a blocked corridor at all. Not named explicitly in spec.md;
	// recorded in DESIGN.md as the resolution of an implicit gap between the
	// search description and the "blocked corridor" scenario.
	SearchPadding float64
}

// DefaultConfig returns reasonable planner defaults.
func DefaultConfig() Config {
	return Config{Resolution: 0.25, ClearanceOffset: 0.2, SearchPadding: 0.5}
}

// Planner searches the lattice rooted at the most recent InitializeMap call.
type Planner struct {
	cfg Config
	m   *vectormap.Map
	log *telemetry.Logger

	navMap map[string]*Node
	origin orb.Point

	graphMirror graph.Graph[string, string]
}

// New returns a Planner over m, configured by cfg.
func New(m *vectormap.Map, cfg Config, log *telemetry.Logger) *Planner {
	if log == nil {
		log = telemetry.NewNop()
	}
	return &Planner{
		cfg: cfg,
		m:   m,
		log: log,
	}
}

// SetResolution updates the lattice resolution. Takes effect on the next
// InitializeMap call.
func (p *Planner) SetResolution(resolution float64) {
	p.cfg.Resolution = resolution
}

// key returns the canonical string identifier for lattice index (i, j).
func key(i, j int) string {
	return fmt.Sprintf("%d_%d", i, j)
}

// InitializeMap clears nav_map_ and (re)roots the lattice at startLoc, per
// spec.md §4.5. Call this whenever the start location changes.
func (p *Planner) InitializeMap(startLoc orb.Point) {
	p.origin = startLoc
	p.navMap = make(map[string]*Node)
	p.graphMirror = graph.New(graph.StringHash, graph.Directed(), graph.Weighted())

	start := &Node{Index: [2]int{0, 0}, Loc: startLoc, Cost: 0, Parent: "", Key: key(0, 0)}
	p.navMap[start.Key] = start
	_ = p.graphMirror.AddVertex(start.Key)
}

// NodeLocation returns the map-frame location of the node identified by
// key, if it has been materialized.
func (p *Planner) NodeLocation(key string) (orb.Point, bool) {
	n, ok := p.navMap[key]
	if !ok {
		return orb.Point{}, false
	}
	return n.Loc, true
}

// locFor returns the map-frame location of lattice index (i, j).
func (p *Planner) locFor(i, j int) orb.Point {
	return orb.Point{
		p.origin.X() + p.cfg.Resolution*float64(i),
		p.origin.Y() + p.cfg.Resolution*float64(j),
	}
}

// getOrCreateNode lazily materializes the node at (i, j), per spec.md §3's
// "extended lazily as nodes are expanded" note.
func (p *Planner) getOrCreateNode(i, j int) *Node {
	k := key(i, j)
	if n, ok := p.navMap[k]; ok {
		return n
	}
	n := &Node{Index: [2]int{i, j}, Loc: p.locFor(i, j), Cost: math.Inf(1), Key: k}
	p.navMap[k] = n
	_ = p.graphMirror.AddVertex(k)
	return n
}

// getNeighbors returns the eight king-move neighbors of node, lazily
// populating and caching node.Neighbors. The neighbor list depends only on
// lattice geometry and map clearance, not on any particular search, so it's
// safe to reuse across multiple GetGlobalPath calls within the same start
// frame (DESIGN.md, "getNeighbors caching").
func (p *Planner) getNeighbors(node *Node) []Neighbor {
	if node.neighborsComputed {
		return node.Neighbors
	}
	neighbors := make([]Neighbor, 0, len(kingMoves))
	for _, mv := range kingMoves {
		ni, nj := node.Index[0]+mv.di, node.Index[1]+mv.dj
		loc := p.locFor(ni, nj)
		edgeLength := p.cfg.Resolution
		if mv.di != 0 && mv.dj != 0 {
			edgeLength *= math.Sqrt2
		}
		edge := vectormap.Segment{P0: node.Loc, P1: loc}
		if !p.isValidNeighbor(edge) {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Index:        [2]int{ni, nj},
			Key:          key(ni, nj),
			EdgeLength:   edgeLength,
			DirectionTag: mv.tag,
		})
	}
	node.Neighbors = neighbors
	node.neighborsComputed = true
	return neighbors
}

// isValidNeighbor reports whether travel along edge is collision-free: the
// center-line segment and both clearance-offset cushion lines must avoid
// every map segment (spec.md §4.5).
func (p *Planner) isValidNeighbor(edge vectormap.Segment) bool {
	if _, ok := p.m.Intersect(edge); ok {
		return false
	}
	for _, offset := range [2]float64{p.cfg.ClearanceOffset, -p.cfg.ClearanceOffset} {
		cushion, ok := vectormap.OffsetSegment(edge, offset)
		if !ok {
			return false // degenerate edge: reject, per spec.md §9
		}
		if _, hit := p.m.Intersect(cushion); hit {
			return false
		}
	}
	return true
}
