package layout

import "github.com/lexora/casemap/pkg/mindmap"

// Memo caches the layout of the most recently seen graph.
//
// A layout is recomputed only when the graph pointer changes. Memo is not safe
// for concurrent use; it belongs to a single view.
type Memo struct {
	cfg   Config
	graph *mindmap.Graph
	nodes []mindmap.Node
	runs  int
}

// NewMemo creates a memo that lays out graphs with cfg.
func NewMemo(cfg Config) *Memo {
	return &Memo{cfg: cfg}
}

// Nodes returns the positioned nodes of g, computing them on first sight of g.
// A nil graph yields an empty slice.
func (m *Memo) Nodes(g *mindmap.Graph) []mindmap.Node {
	if g == nil {
		m.graph, m.nodes = nil, []mindmap.Node{}
		return m.nodes
	}
	if g == m.graph {
		return m.nodes
	}
	m.graph = g
	m.nodes = Radial(g.Nodes, m.cfg)
	if m.nodes == nil {
		m.nodes = []mindmap.Node{}
	}
	m.runs++
	return m.nodes
}

// Runs returns how many layout passes have been computed.
func (m *Memo) Runs() int {
	return m.runs
}

// Config returns the layout configuration.
func (m *Memo) Config() Config {
	return m.cfg
}
