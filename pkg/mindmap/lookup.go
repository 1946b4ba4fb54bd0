package mindmap

// Lookup returns the first node in nodes with the given id.
// Later nodes with a duplicate id are shadowed.
func Lookup(nodes []Node, id string) (Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Index maps node ids to nodes, keeping the first occurrence of duplicates.
func Index(nodes []Node) map[string]Node {
	idx := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if _, seen := idx[n.ID]; !seen {
			idx[n.ID] = n
		}
	}
	return idx
}

// RenderableEdges resolves edges against nodes and returns the ones that can
// be drawn. An edge is skipped when either endpoint is missing or lacks a
// position. Order follows edges.
func RenderableEdges(nodes []Node, edges []Edge) []Segment {
	idx := Index(nodes)
	out := make([]Segment, 0, len(edges))
	for _, e := range edges {
		from, ok := idx[e.Source]
		if !ok || !from.HasPosition() {
			continue
		}
		to, ok := idx[e.Target]
		if !ok || !to.HasPosition() {
			continue
		}
		out = append(out, Segment{Edge: e, From: from, To: to})
	}
	return out
}

// DanglingEdges returns the edges whose source or target is not among nodes.
func DanglingEdges(nodes []Node, edges []Edge) []Edge {
	idx := Index(nodes)
	var out []Edge
	for _, e := range edges {
		_, okS := idx[e.Source]
		_, okT := idx[e.Target]
		if !okS || !okT {
			out = append(out, e)
		}
	}
	return out
}
