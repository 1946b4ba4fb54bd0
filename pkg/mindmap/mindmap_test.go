package mindmap

import (
	"strings"
	"testing"

	"github.com/lexora/casemap/pkg/errors"
)

func pos(id string, x, y float64) Node {
	return Node{ID: id, Label: strings.ToUpper(id)}.WithPosition(x, y)
}

func TestNodePosition(t *testing.T) {
	n := Node{ID: "a"}
	if n.HasPosition() {
		t.Fatal("fresh node should have no position")
	}
	x := 3.0
	n.X = &x
	if n.HasPosition() {
		t.Error("node with only X should not count as positioned")
	}

	p := n.WithPosition(10, 20)
	if !p.HasPosition() {
		t.Fatal("WithPosition should set both coordinates")
	}
	if gx, gy := p.Position(); gx != 10 || gy != 20 {
		t.Errorf("Position() = (%v, %v), want (10, 20)", gx, gy)
	}
	if *n.X != 3 {
		t.Error("WithPosition must not mutate the receiver")
	}
}

func TestDisplayLabel(t *testing.T) {
	if got := (Node{ID: "a"}).DisplayLabel(); got != "a" {
		t.Errorf("DisplayLabel() = %q, want %q", got, "a")
	}
	if got := (Node{ID: "a", Label: "Alpha"}).DisplayLabel(); got != "Alpha" {
		t.Errorf("DisplayLabel() = %q, want %q", got, "Alpha")
	}
}

func TestLookupFirstMatchWins(t *testing.T) {
	nodes := []Node{
		{ID: "a", Label: "first"},
		{ID: "b", Label: "B"},
		{ID: "a", Label: "shadowed"},
	}

	n, ok := Lookup(nodes, "a")
	if !ok || n.Label != "first" {
		t.Errorf("Lookup(a) = %+v, %v; want first", n, ok)
	}
	if idx := Index(nodes); idx["a"].Label != "first" {
		t.Errorf("Index kept %q, want first", idx["a"].Label)
	}
	if _, ok := Lookup(nodes, "zzz"); ok {
		t.Error("Lookup of unknown id should fail")
	}
}

func TestRenderableEdges(t *testing.T) {
	tests := []struct {
		name   string
		nodes  []Node
		edges  []Edge
		labels []string
	}{
		{
			name:   "dangling target",
			nodes:  []Node{pos("a", 0, 0)},
			edges:  []Edge{{Source: "a", Target: "ghost", Label: "x"}},
			labels: nil,
		},
		{
			name:   "dangling source",
			nodes:  []Node{pos("a", 0, 0)},
			edges:  []Edge{{Source: "ghost", Target: "a", Label: "x"}},
			labels: nil,
		},
		{
			name:   "unpositioned endpoint",
			nodes:  []Node{pos("a", 0, 0), {ID: "b"}},
			edges:  []Edge{{Source: "a", Target: "b", Label: "x"}},
			labels: nil,
		},
		{
			name:  "mixed keeps order",
			nodes: []Node{pos("a", 0, 0), pos("b", 10, 0), pos("c", 0, 10)},
			edges: []Edge{
				{Source: "a", Target: "b", Label: "ab"},
				{Source: "a", Target: "nope", Label: "skip"},
				{Source: "c", Target: "a", Label: "ca"},
			},
			labels: []string{"ab", "ca"},
		},
		{
			name:   "self loop",
			nodes:  []Node{pos("a", 1, 1)},
			edges:  []Edge{{Source: "a", Target: "a", Label: "self"}},
			labels: []string{"self"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderableEdges(tt.nodes, tt.edges)
			if len(got) != len(tt.labels) {
				t.Fatalf("got %d segments, want %d", len(got), len(tt.labels))
			}
			for i, s := range got {
				if s.Edge.Label != tt.labels[i] {
					t.Errorf("segment[%d] = %q, want %q", i, s.Edge.Label, tt.labels[i])
				}
			}
		})
	}
}

func TestSegmentMidpoint(t *testing.T) {
	s := Segment{From: pos("a", 0, 0), To: pos("b", 100, 50)}
	if x, y := s.Midpoint(); x != 50 || y != 25 {
		t.Errorf("Midpoint() = (%v, %v), want (50, 25)", x, y)
	}
}

func TestDanglingEdges(t *testing.T) {
	nodes := []Node{{ID: "a"}}
	edges := []Edge{{Source: "a", Target: "ghost", Label: "x"}, {Source: "a", Target: "a", Label: "ok"}}
	got := DanglingEdges(nodes, edges)
	if len(got) != 1 || got[0].Label != "x" {
		t.Errorf("DanglingEdges() = %+v, want only x", got)
	}
}

func TestIsEmpty(t *testing.T) {
	var nilGraph *Graph
	if !nilGraph.IsEmpty() {
		t.Error("nil graph should be empty")
	}
	if !Empty().IsEmpty() {
		t.Error("Empty() should be empty")
	}
	g := &Graph{Nodes: nil, Edges: []Edge{{Source: "a", Target: "b"}}}
	if !g.IsEmpty() {
		t.Error("graph with edges but no nodes is still empty")
	}
	if (&Graph{Nodes: []Node{{ID: "a"}}}).IsEmpty() {
		t.Error("graph with a node is not empty")
	}
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantNodes int
		wantEdges int
	}{
		{"full", `{"nodes":[{"id":"a","label":"A"},{"id":"b","label":"B","x":1,"y":2}],"edges":[{"source":"a","target":"b","label":"r"}]}`, false, 2, 1},
		{"empty arrays", `{"nodes":[],"edges":[]}`, false, 0, 0},
		{"missing edges", `{"nodes":[{"id":"a","label":"A"}]}`, false, 0, 0},
		{"missing nodes", `{"edges":[]}`, false, 0, 0},
		{"null nodes", `{"nodes":null,"edges":[]}`, false, 0, 0},
		{"not json", `nodes: []`, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Unmarshal([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidGraph) {
					t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidGraph)
				}
				return
			}
			if g.NodeCount() != tt.wantNodes || g.EdgeCount() != tt.wantEdges {
				t.Errorf("got %d nodes %d edges, want %d/%d", g.NodeCount(), g.EdgeCount(), tt.wantNodes, tt.wantEdges)
			}
		})
	}
}

func TestUnmarshalPositions(t *testing.T) {
	g, err := Unmarshal([]byte(`{"nodes":[{"id":"a","label":"A"},{"id":"b","label":"B","x":1.5,"y":-2}],"edges":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	if g.Nodes[0].HasPosition() {
		t.Error("node a should have no position")
	}
	if x, y := g.Nodes[1].Position(); x != 1.5 || y != -2 {
		t.Errorf("node b at (%v, %v), want (1.5, -2)", x, y)
	}
}

func TestMarshalOmitsAbsentCoordinates(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "a", Label: "A"}, pos("b", 1, 2)}}
	data, err := Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if strings.Count(s, `"x"`) != 1 {
		t.Errorf("expected exactly one x coordinate in %s", s)
	}
	if !strings.Contains(s, `"edges": []`) {
		t.Errorf("nil edges should encode as an empty array: %s", s)
	}
}

func TestHash(t *testing.T) {
	a := &Graph{Nodes: []Node{{ID: "a"}}, Edges: []Edge{}}
	b := &Graph{Nodes: []Node{{ID: "a"}}, Edges: []Edge{}}
	c := &Graph{Nodes: []Node{{ID: "b"}}, Edges: []Edge{}}

	if Hash(a) != Hash(b) {
		t.Error("equal graphs should hash equally")
	}
	if Hash(a) == Hash(c) {
		t.Error("different graphs should hash differently")
	}
	if len(Hash(a)) != 64 {
		t.Errorf("hash length = %d, want 64", len(Hash(a)))
	}
}

func TestWithNodes(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "a"}}, Edges: []Edge{{Source: "a", Target: "a"}}}
	laid := g.WithNodes([]Node{pos("a", 1, 1)})
	if laid == g {
		t.Fatal("WithNodes must return a new graph")
	}
	if g.Nodes[0].HasPosition() {
		t.Error("original graph must not change")
	}
	if len(laid.Edges) != 1 {
		t.Errorf("edges not carried over")
	}
}
