// Package view hosts one mounted mind map.
//
// A [View] binds a graph to its cached layout and a viewport controller, routes
// pointer input either to panning or to node activation, and exposes the
// [Scene] a renderer draws. Activations are published on an events bus so any
// number of panels can react to a node click.
package view

import (
	"github.com/lexora/casemap/pkg/events"
	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/mindmap/layout"
	"github.com/lexora/casemap/pkg/viewport"
)

// Node box size in canvas units, matching what the renderers draw.
const (
	DefaultNodeWidth  = 120.0
	DefaultNodeHeight = 40.0
)

// EmptyMessage is shown instead of a canvas when there is nothing to render.
const EmptyMessage = "No mind map to display."

// Scene is everything a renderer needs for one frame.
type Scene struct {
	Viewbox viewport.Viewbox  `json:"viewbox"`
	Nodes   []mindmap.Node    `json:"nodes"`
	Edges   []mindmap.Segment `json:"-"`
}

// Option configures a View.
type Option func(*View)

// WithLayout sets the layout configuration.
func WithLayout(cfg layout.Config) Option {
	return func(v *View) { v.memo = layout.NewMemo(cfg) }
}

// WithViewport sets the viewport configuration.
func WithViewport(cfg viewport.Config) Option {
	return func(v *View) { v.ctrl = viewport.New(cfg) }
}

// WithNodeSize sets the node box used for hit testing.
func WithNodeSize(w, h float64) Option {
	return func(v *View) {
		if w > 0 && h > 0 {
			v.nodeW, v.nodeH = w, h
		}
	}
}

// WithBus publishes activations on bus instead of a private one.
func WithBus(bus *events.Bus[mindmap.Node]) Option {
	return func(v *View) {
		if bus != nil {
			v.bus = bus
		}
	}
}

// View is a mounted mind map. It is not safe for concurrent use.
type View struct {
	memo  *layout.Memo
	ctrl  *viewport.Controller
	bus   *events.Bus[mindmap.Node]
	graph *mindmap.Graph
	nodes []mindmap.Node

	nodeW, nodeH float64

	pressed    string // node id under an unreleased press, if any
	hasPressed bool
}

// New creates a view with no graph (the empty state).
func New(opts ...Option) *View {
	v := &View{
		memo:  layout.NewMemo(layout.DefaultConfig()),
		ctrl:  viewport.New(viewport.DefaultConfig()),
		bus:   events.NewBus[mindmap.Node](),
		nodeW: DefaultNodeWidth,
		nodeH: DefaultNodeHeight,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.nodes = []mindmap.Node{}
	return v
}

// SetGraph binds g. The layout is recomputed only when g is a different graph
// than the one already bound. The viewbox is kept.
func (v *View) SetGraph(g *mindmap.Graph) {
	v.graph = g
	v.nodes = v.memo.Nodes(g)
	v.hasPressed = false
}

// Graph returns the bound graph.
func (v *View) Graph() *mindmap.Graph { return v.graph }

// Nodes returns the positioned nodes.
func (v *View) Nodes() []mindmap.Node { return v.nodes }

// LayoutRuns returns how many layout passes this view has computed.
func (v *View) LayoutRuns() int { return v.memo.Runs() }

// Controller returns the viewport controller.
func (v *View) Controller() *viewport.Controller { return v.ctrl }

// Viewbox returns the current viewbox.
func (v *View) Viewbox() viewport.Viewbox { return v.ctrl.Viewbox() }

// Empty reports whether there is nothing to render.
func (v *View) Empty() bool { return v.graph.IsEmpty() }

// Scene returns the frame to draw, or false in the empty state.
func (v *View) Scene() (Scene, bool) {
	if v.Empty() {
		return Scene{}, false
	}
	return Scene{
		Viewbox: v.ctrl.Viewbox(),
		Nodes:   v.nodes,
		Edges:   mindmap.RenderableEdges(v.nodes, v.graph.Edges),
	}, true
}

// OnActivate subscribes fn to node activations.
func (v *View) OnActivate(fn func(mindmap.Node)) (cancel func()) {
	return v.bus.Subscribe(fn)
}

// Close releases activation subscribers.
func (v *View) Close() { v.bus.Close() }

// NodeAt returns the topmost node whose box contains canvas point p.
// Later nodes are drawn over earlier ones, so the search runs backwards.
func (v *View) NodeAt(p viewport.Point) (mindmap.Node, bool) {
	hw, hh := v.nodeW/2, v.nodeH/2
	for i := len(v.nodes) - 1; i >= 0; i-- {
		n := v.nodes[i]
		if !n.HasPosition() {
			continue
		}
		x, y := n.Position()
		if p.X >= x-hw && p.X <= x+hw && p.Y >= y-hh && p.Y <= y+hh {
			return n, true
		}
	}
	return mindmap.Node{}, false
}

// NodeAtScreen hit-tests client position p against the current viewbox.
func (v *View) NodeAtScreen(p viewport.Point, b viewport.Bounds) (mindmap.Node, bool) {
	c, ok := v.ctrl.ScreenToCanvas(p, b)
	if !ok {
		return mindmap.Node{}, false
	}
	return v.NodeAt(c)
}

// PointerDown handles a press at client position p. A press on a node is
// remembered as a pending click; a press on the background starts panning.
// It returns the node hit, if any. A press the host cannot measure is ignored.
func (v *View) PointerDown(p viewport.Point, b viewport.Bounds) (mindmap.Node, bool) {
	if v.Empty() || !b.Valid() {
		return mindmap.Node{}, false
	}
	n, over := v.NodeAtScreen(p, b)
	v.hasPressed = over
	v.pressed = n.ID
	v.ctrl.PointerDown(p, over)
	return n, over
}

// PointerMove pans while a pan gesture is active.
func (v *View) PointerMove(p viewport.Point) bool {
	if v.Empty() {
		return false
	}
	return v.ctrl.PointerMove(p)
}

// PointerUp ends any gesture. Releasing over the node that was pressed
// activates it; the activated node is returned.
func (v *View) PointerUp(p viewport.Point, b viewport.Bounds) (mindmap.Node, bool) {
	v.ctrl.PointerUp()
	if !v.hasPressed || v.Empty() {
		v.hasPressed = false
		return mindmap.Node{}, false
	}
	v.hasPressed = false
	n, over := v.NodeAtScreen(p, b)
	if !over || n.ID != v.pressed {
		return mindmap.Node{}, false
	}
	v.bus.Publish(n)
	return n, true
}

// PointerLeave ends any gesture and drops a pending click.
func (v *View) PointerLeave() {
	v.ctrl.PointerLeave()
	v.hasPressed = false
}

// Wheel zooms to the cursor. It returns true when the host should suppress
// default scrolling. Ignored in the empty state.
func (v *View) Wheel(p viewport.Point, deltaY float64, b viewport.Bounds) bool {
	if v.Empty() {
		return false
	}
	return v.ctrl.Wheel(p, deltaY, b)
}

// Activate publishes the node with the given id, as a click would.
func (v *View) Activate(id string) (mindmap.Node, bool) {
	n, ok := mindmap.Lookup(v.nodes, id)
	if !ok {
		return mindmap.Node{}, false
	}
	v.bus.Publish(n)
	return n, true
}
