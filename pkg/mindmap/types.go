package mindmap

// =============================================================================
// Node
// =============================================================================

// Node is an entity in a mind map.
//
// X and Y are optional canvas coordinates. They are nil until the layout
// engine fills them in, unless the data source already supplied them.
type Node struct {
	ID    string   `json:"id" bson:"id"`
	Label string   `json:"label" bson:"label"`
	X     *float64 `json:"x,omitempty" bson:"x,omitempty"`
	Y     *float64 `json:"y,omitempty" bson:"y,omitempty"`
}

// HasPosition reports whether both coordinates are set.
func (n Node) HasPosition() bool {
	return n.X != nil && n.Y != nil
}

// Position returns the node coordinates, or (0, 0) when either is absent.
func (n Node) Position() (x, y float64) {
	if !n.HasPosition() {
		return 0, 0
	}
	return *n.X, *n.Y
}

// WithPosition returns a copy of n placed at (x, y).
func (n Node) WithPosition(x, y float64) Node {
	n.X = &x
	n.Y = &y
	return n
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a labeled directed relationship. Source and Target reference node
// IDs in the same graph; dangling references are tolerated.
type Edge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Label  string `json:"label" bson:"label"`
}

// =============================================================================
// Graph
// =============================================================================

// Graph is a case mind map.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Empty returns a new graph with no nodes and no edges.
func Empty() *Graph {
	return &Graph{Nodes: []Node{}, Edges: []Edge{}}
}

// IsEmpty reports whether there is nothing to render. A nil graph is empty.
func (g *Graph) IsEmpty() bool {
	return g == nil || len(g.Nodes) == 0
}

// NodeCount returns the number of nodes, zero for a nil graph.
func (g *Graph) NodeCount() int {
	if g == nil {
		return 0
	}
	return len(g.Nodes)
}

// EdgeCount returns the number of edges, zero for a nil graph.
func (g *Graph) EdgeCount() int {
	if g == nil {
		return 0
	}
	return len(g.Edges)
}

// WithNodes returns a new graph sharing g's edges with the given nodes.
// Used to attach a computed layout without touching the received graph.
func (g *Graph) WithNodes(nodes []Node) *Graph {
	out := &Graph{Nodes: nodes}
	if g != nil {
		out.Edges = g.Edges
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	return out
}

// =============================================================================
// Segment
// =============================================================================

// Segment is an edge ready to draw: both endpoints exist and are positioned.
type Segment struct {
	Edge Edge
	From Node
	To   Node
}

// Midpoint returns the point halfway along the segment, where the label sits.
func (s Segment) Midpoint() (x, y float64) {
	x1, y1 := s.From.Position()
	x2, y2 := s.To.Position()
	return (x1 + x2) / 2, (y1 + y2) / 2
}
