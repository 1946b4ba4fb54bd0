package pipeline

import (
	"context"
	"time"

	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/mindmap/layout"
	"github.com/lexora/casemap/pkg/observability"
)

// layoutEngine names the layout in observability events.
const layoutEngine = "radial"

// ComputeLayout returns a graph with every node of g positioned. The input
// graph is not modified; when g is already fully positioned it is returned
// unchanged.
func ComputeLayout(ctx context.Context, g *mindmap.Graph, opts Options) *mindmap.Graph {
	opts.SetLayoutDefaults()
	if g == nil {
		return mindmap.Empty()
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, layoutEngine, g.NodeCount())

	nodes := layout.Radial(g.Nodes, opts.Layout)
	out := g
	if !sameBacking(nodes, g.Nodes) {
		out = g.WithNodes(nodes)
	}

	observability.Pipeline().OnLayoutComplete(ctx, layoutEngine, time.Since(start), nil)
	opts.Logger.Debug("radial layout",
		"nodes", len(nodes),
		"radius", layout.Radius(len(nodes), opts.Layout))
	return out
}

// sameBacking reports whether a and b are the same slice.
func sameBacking(a, b []mindmap.Node) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
