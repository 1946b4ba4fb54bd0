package layout

import (
	"math"
	"testing"

	"github.com/lexora/casemap/pkg/mindmap"
)

const eps = 1e-9

func unplaced(n int) []mindmap.Node {
	nodes := make([]mindmap.Node, n)
	for i := range nodes {
		nodes[i] = mindmap.Node{ID: string(rune('a' + i)), Label: "n"}
	}
	return nodes
}

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestRadialEmpty(t *testing.T) {
	got := Radial([]mindmap.Node{}, DefaultConfig())
	if len(got) != 0 {
		t.Errorf("Radial(empty) returned %d nodes", len(got))
	}
	if got := Radial(nil, DefaultConfig()); got == nil || len(got) != 0 {
		t.Errorf("Radial(nil) = %#v, want a non-nil empty slice", got)
	}
}

func TestRadialSingleNodeAtCenter(t *testing.T) {
	got := Radial(unplaced(1), DefaultConfig())
	x, y := got[0].Position()
	if !near(x, 500) || !near(y, 300) {
		t.Errorf("single node at (%v, %v), want (500, 300)", x, y)
	}
}

func TestRadialDeterministic(t *testing.T) {
	nodes := unplaced(7)
	a := Radial(nodes, DefaultConfig())
	b := Radial(nodes, DefaultConfig())
	for i := range a {
		ax, ay := a[i].Position()
		bx, by := b[i].Position()
		if ax != bx || ay != by {
			t.Errorf("node %d: (%v,%v) != (%v,%v)", i, ax, ay, bx, by)
		}
	}
}

func TestRadialShortCircuit(t *testing.T) {
	nodes := []mindmap.Node{
		mindmap.Node{ID: "a"}.WithPosition(1, 2),
		mindmap.Node{ID: "b"}.WithPosition(3, 4),
	}
	got := Radial(nodes, DefaultConfig())
	if &got[0] != &nodes[0] {
		t.Error("fully positioned input should be returned unchanged")
	}
	if x, y := got[1].Position(); x != 3 || y != 4 {
		t.Errorf("node b moved to (%v, %v)", x, y)
	}
}

func TestRadialDoesNotMutateInput(t *testing.T) {
	nodes := unplaced(3)
	_ = Radial(nodes, DefaultConfig())
	for i, n := range nodes {
		if n.HasPosition() {
			t.Errorf("input node %d was mutated", i)
		}
	}
}

func TestRadialPositions(t *testing.T) {
	// n = 4: r = 160, angles 0, π/2, π, 3π/2.
	got := Radial(unplaced(4), DefaultConfig())
	want := [][2]float64{{660, 300}, {500, 460}, {340, 300}, {500, 140}}
	for i, w := range want {
		x, y := got[i].Position()
		if !near(x, w[0]) || !near(y, w[1]) {
			t.Errorf("node %d at (%v, %v), want (%v, %v)", i, x, y, w[0], w[1])
		}
	}
}

func TestRadialPartialLayoutKeepsIndexSlot(t *testing.T) {
	nodes := unplaced(4)
	nodes[0] = nodes[0].WithPosition(-10, -20)
	got := Radial(nodes, DefaultConfig())

	if x, y := got[0].Position(); x != -10 || y != -20 {
		t.Errorf("placed node moved to (%v, %v)", x, y)
	}
	// Node 2 keeps slot 2 of 4 (angle π), not slot 1 of 3.
	x, y := got[2].Position()
	if !near(x, 340) || !near(y, 300) {
		t.Errorf("node 2 at (%v, %v), want (340, 300)", x, y)
	}
}

func TestRadialHalfPositionedNodeIsPlaced(t *testing.T) {
	x := 42.0
	nodes := []mindmap.Node{{ID: "a", X: &x}, {ID: "b"}}
	got := Radial(nodes, DefaultConfig())
	// r = 80, angle 0.
	gx, gy := got[0].Position()
	if !near(gx, 580) || !near(gy, 300) {
		t.Errorf("node with only x placed at (%v, %v), want (580, 300)", gx, gy)
	}
}

func TestRadius(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		n    int
		want float64
	}{
		{0, 0},
		{1, 0},
		{2, 80},
		{5, 200},
		{9, 360},
		{10, 400},
		{11, 400},
		{300, 400},
	}
	for _, tt := range tests {
		if got := Radius(tt.n, cfg); got != tt.want {
			t.Errorf("Radius(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestRadiusMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	for n1 := 1; n1 <= 10; n1++ {
		for n2 := n1 + 1; n2 <= 10; n2++ {
			if Radius(n2, cfg) < Radius(n1, cfg) {
				t.Errorf("Radius(%d) < Radius(%d)", n2, n1)
			}
		}
	}
}

func TestRadialCustomConfig(t *testing.T) {
	cfg := Config{CenterX: 0, CenterY: 0, RadiusStep: 10, MaxRadius: 15}
	got := Radial(unplaced(2), cfg)
	if x, _ := got[0].Position(); !near(x, 15) {
		t.Errorf("capped radius not applied: x = %v, want 15", x)
	}
}
