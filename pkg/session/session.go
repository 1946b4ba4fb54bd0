// Package session keeps interactive mind-map views alive between requests.
//
// A browser or other remote host creates a session with a graph, then streams
// pointer and wheel events to it. Each event runs against the session's
// [view.View] and the reply carries the new viewbox, so the host only has to
// draw. Sessions expire after a period of inactivity.
//
//	store := session.NewStore(session.DefaultTTL, 0)
//	sess, err := store.Create(ctx, g)
//	out, err := sess.Dispatch(ctx, session.Event{Type: session.EventWheel, X: 500, Y: 300, DeltaY: -1, Bounds: b})
package session

import (
	"context"
	"sync"
	"time"

	"github.com/lexora/casemap/pkg/errors"
	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/observability"
	"github.com/lexora/casemap/pkg/view"
	"github.com/lexora/casemap/pkg/viewport"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// Event types, named after the DOM events hosts forward.
const (
	EventPointerDown  = "pointerdown"
	EventPointerMove  = "pointermove"
	EventPointerUp    = "pointerup"
	EventPointerLeave = "pointerleave"
	EventWheel        = "wheel"
)

// Event is one input event in client coordinates.
type Event struct {
	Type   string          `json:"type"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	DeltaY float64         `json:"delta_y,omitempty"`
	Bounds viewport.Bounds `json:"bounds"`
}

// Outcome is the session state after an event.
type Outcome struct {
	Viewbox viewport.Viewbox `json:"viewbox"`
	State   string           `json:"state"`
	Changed bool             `json:"changed"`

	// PreventDefault tells the host to suppress page scrolling for a wheel event.
	PreventDefault bool `json:"prevent_default"`

	// Activated is the node clicked by this event, if any.
	Activated *mindmap.Node `json:"activated,omitempty"`
}

// Snapshot is the renderable state of a session.
type Snapshot struct {
	ID      string           `json:"id"`
	Empty   bool             `json:"empty"`
	Viewbox viewport.Viewbox `json:"viewbox"`
	State   string           `json:"state"`
	Nodes   []mindmap.Node   `json:"nodes"`
	Edges   []mindmap.Edge   `json:"edges"`
}

// Session is one mounted view. Methods are safe for concurrent use; events
// are applied one at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	view      *view.View
	expiresAt time.Time
}

// Dispatch applies ev to the view.
func (s *Session) Dispatch(ctx context.Context, ev Event) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := viewport.Point{X: ev.X, Y: ev.Y}
	before := s.view.Viewbox()
	var out Outcome

	switch ev.Type {
	case EventPointerDown:
		s.view.PointerDown(p, ev.Bounds)
	case EventPointerMove:
		s.view.PointerMove(p)
	case EventPointerUp:
		if n, ok := s.view.PointerUp(p, ev.Bounds); ok {
			out.Activated = &n
		}
	case EventPointerLeave:
		s.view.PointerLeave()
	case EventWheel:
		out.PreventDefault = s.view.Wheel(p, ev.DeltaY, ev.Bounds)
	default:
		return Outcome{}, errors.New(errors.ErrCodeInvalidEvent, "unknown event type %q", ev.Type)
	}

	out.Viewbox = s.view.Viewbox()
	out.State = s.view.Controller().State().String()
	out.Changed = out.Viewbox != before
	observability.Session().OnSessionEvent(ctx, s.ID, ev.Type, out.Changed)
	return out, nil
}

// SetGraph swaps the graph. A different graph is laid out again; the
// viewbox is kept.
func (s *Session) SetGraph(g *mindmap.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.SetGraph(g)
}

// Activate activates a node by id, as a click would.
func (s *Session) Activate(id string) (mindmap.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Activate(id)
}

// Reset restores the initial viewbox.
func (s *Session) Reset() viewport.Viewbox {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Controller().Reset()
	return s.view.Viewbox()
}

// Snapshot returns the current nodes, drawable edges and viewbox.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:      s.ID,
		Empty:   s.view.Empty(),
		Viewbox: s.view.Viewbox(),
		State:   s.view.Controller().State().String(),
		Nodes:   []mindmap.Node{},
		Edges:   []mindmap.Edge{},
	}
	if scene, ok := s.view.Scene(); ok {
		snap.Nodes = scene.Nodes
		for _, seg := range scene.Edges {
			snap.Edges = append(snap.Edges, seg.Edge)
		}
	}
	return snap
}

// Scene returns the frame to draw, or false in the empty state.
func (s *Session) Scene() (view.Scene, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Scene()
}

// OnActivate subscribes fn to node activations in this session.
func (s *Session) OnActivate(fn func(mindmap.Node)) (cancel func()) {
	return s.view.OnActivate(fn)
}

func (s *Session) expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.After(s.expiresAt)
}

func (s *Session) touch(now time.Time, ttl time.Duration) {
	s.mu.Lock()
	s.expiresAt = now.Add(ttl)
	s.mu.Unlock()
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Close()
}
