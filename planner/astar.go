package planner

import (
	"math"

	"navcore/pqueue"

	"github.com/dominikbraun/graph"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// goalTolerance is "within one resolution of the goal" from spec.md §4.5.
func (p *Planner) goalTolerance() float64 { return p.cfg.Resolution }

// withinSearchBounds reports whether loc falls inside the bounding box of
// a and b, padded by cfg.SearchPadding on every side. See the SearchPadding
// field comment in grid.go for why this bound exists.
func (p *Planner) withinSearchBounds(loc, a, b orb.Point) bool {
	pad := p.cfg.SearchPadding
	minX, maxX := math.Min(a.X(), b.X())-pad, math.Max(a.X(), b.X())+pad
	minY, maxY := math.Min(a.Y(), b.Y())-pad, math.Max(a.Y(), b.Y())+pad
	return loc.X() >= minX && loc.X() <= maxX && loc.Y() >= minY && loc.Y() <= maxY
}

// GetGlobalPath searches the lattice rooted at the last InitializeMap call
// for a shortest collision-free path to goal, returning the ordered
// sequence of node keys from start to goal. Returns an empty sequence if
// the frontier empties without reaching the goal (spec.md §4.5, §7c).
//
// Each call re-seeds path costs for a fresh A* search but reuses any
// already-computed neighbor/clearance geometry cached on nav_map_'s nodes,
// since that geometry depends only on the lattice and the map, not on the
// goal (DESIGN.md records this as the resolution of an Open Question
// spec.md leaves implicit).
func (p *Planner) GetGlobalPath(goal orb.Point) []string {
	start, ok := p.navMap[key(0, 0)]
	if !ok {
		p.log.Warn("GetGlobalPath called before InitializeMap")
		return nil
	}

	for _, n := range p.navMap {
		n.Cost = math.Inf(1)
		n.Parent = ""
	}
	start.Cost = 0

	heuristic := func(n *Node) float64 {
		dx, dy := n.Loc.X()-goal.X(), n.Loc.Y()-goal.Y()
		return math.Hypot(dx, dy)
	}

	frontier := pqueue.New()
	frontier.PushOrUpdate(start.Key, heuristic(start))

	for !frontier.IsEmpty() {
		currentKey, _, _ := frontier.PopMin()
		current := p.navMap[currentKey]

		dx, dy := current.Loc.X()-goal.X(), current.Loc.Y()-goal.Y()
		if math.Hypot(dx, dy) <= p.goalTolerance() {
			return p.reconstructPath(current.Key)
		}

		for _, nb := range p.getNeighbors(current) {
			loc := p.locFor(nb.Index[0], nb.Index[1])
			if !p.withinSearchBounds(loc, start.Loc, goal) {
				continue
			}
			neighbor := p.getOrCreateNode(nb.Index[0], nb.Index[1])
			tentativeG := current.Cost + nb.EdgeLength
			if tentativeG >= neighbor.Cost {
				continue // never expand a node with g larger than recorded (spec.md §8 invariant)
			}
			neighbor.Cost = tentativeG
			neighbor.Parent = current.Key
			frontier.PushOrUpdate(neighbor.Key, tentativeG+heuristic(neighbor))
			_ = p.graphMirror.AddVertex(neighbor.Key)
			_ = p.graphMirror.AddEdge(current.Key, neighbor.Key, graph.EdgeWeight(int(nb.EdgeLength)))
		}
	}

	p.log.Warn("no path found", zap.Float64("goal_x", goal.X()), zap.Float64("goal_y", goal.Y()))
	return nil
}

// reconstructPath walks parent pointers from goalKey back to the start and
// reverses the result, per spec.md §4.5 and §9's "parent-by-key" note.
func (p *Planner) reconstructPath(goalKey string) []string {
	var reversed []string
	k := goalKey
	for {
		reversed = append(reversed, k)
		n := p.navMap[k]
		if n.Parent == "" {
			break
		}
		k = n.Parent
	}
	path := make([]string, len(reversed))
	for i, k := range reversed {
		path[len(reversed)-1-i] = k
	}
	return path
}
