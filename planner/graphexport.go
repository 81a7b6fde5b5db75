package planner

import (
	"io"

	"github.com/dominikbraun/graph/draw"
)

// ExportGraph writes the planner's visited-node graph mirror as Graphviz
// DOT to w, for external inspection of what GetGlobalPath actually explored
// (spec.md §1's "visualization is an external collaborator's concern" —
// this just hands that collaborator a standard format, it doesn't render
// anything itself).
func (p *Planner) ExportGraph(w io.Writer) error {
	if p.graphMirror == nil {
		return nil
	}
	return draw.DOT(p.graphMirror, w)
}
