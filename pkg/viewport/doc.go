// Package viewport implements pan and zoom over an unbounded 2D canvas.
//
// A [Viewbox] is the visible rectangle of the canvas, in canvas units. A
// [Controller] mutates it in response to pointer and wheel input using a small
// state machine:
//
//	Idle    --pointer down on background--> Panning
//	Panning --pointer move-->               Panning (origin += anchor - pointer)
//	Panning --pointer up / leave-->         Idle
//	any     --wheel-->                      same state, zoom to cursor
//
// Panning applies screen-unit deltas directly to the viewbox origin and moves
// the anchor to the latest pointer position, so motion is incremental.
//
// Zooming keeps the canvas point under the cursor fixed. Each wheel event is
// applied to the latest viewbox, never to a value captured earlier.
//
// Input against an element that cannot be measured (zero or non-finite size)
// or a degenerate viewbox is ignored rather than producing NaN or Inf.
//
// The controller is single-threaded. It takes no locks.
package viewport
