package viewport

// State is the controller's gesture state.
type State int

const (
	Idle State = iota
	Panning
)

// String returns "idle" or "panning".
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	default:
		return "unknown"
	}
}

// Default viewport parameters.
const (
	DefaultZoomOut = 1.1
	DefaultZoomIn  = 0.9
)

// DefaultViewbox is the viewbox a controller starts with.
var DefaultViewbox = Viewbox{X: 0, Y: 0, W: 1000, H: 600}

// Config configures a Controller.
type Config struct {
	Initial Viewbox `toml:"initial" json:"initial"`
	ZoomOut float64 `toml:"zoom_out" json:"zoom_out"` // scale applied when scrolling down
	ZoomIn  float64 `toml:"zoom_in" json:"zoom_in"`   // scale applied when scrolling up
}

// DefaultConfig returns the {0, 0, 1000, 600} viewbox with 1.1/0.9 zoom steps.
func DefaultConfig() Config {
	return Config{
		Initial: DefaultViewbox,
		ZoomOut: DefaultZoomOut,
		ZoomIn:  DefaultZoomIn,
	}
}

// Controller holds the viewbox and the pan gesture state.
type Controller struct {
	cfg    Config
	view   Viewbox
	state  State
	anchor Point
}

// New creates a controller in the Idle state showing cfg.Initial.
// An invalid initial viewbox falls back to [DefaultViewbox].
func New(cfg Config) *Controller {
	if !cfg.Initial.Valid() {
		cfg.Initial = DefaultViewbox
	}
	if !validScale(cfg.ZoomOut) {
		cfg.ZoomOut = DefaultZoomOut
	}
	if !validScale(cfg.ZoomIn) {
		cfg.ZoomIn = DefaultZoomIn
	}
	return &Controller{cfg: cfg, view: cfg.Initial}
}

// Viewbox returns the current viewbox.
func (c *Controller) Viewbox() Viewbox { return c.view }

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// Anchor returns the last recorded pointer position of the pan gesture.
// It is meaningful only while Panning.
func (c *Controller) Anchor() Point { return c.anchor }

// PointerDown starts a pan when the press lands on the canvas background.
// Presses over a node are left to the host and return false.
func (c *Controller) PointerDown(p Point, overNode bool) bool {
	if overNode {
		return false
	}
	c.state = Panning
	c.anchor = p
	return true
}

// PointerMove pans by the pointer delta since the last move while Panning.
// It returns true if the viewbox changed.
func (c *Controller) PointerMove(p Point) bool {
	if c.state != Panning {
		return false
	}
	dx := c.anchor.X - p.X
	dy := c.anchor.Y - p.Y
	next := Viewbox{X: c.view.X + dx, Y: c.view.Y + dy, W: c.view.W, H: c.view.H}
	c.anchor = p
	if !next.Valid() {
		return false
	}
	c.view = next
	return dx != 0 || dy != 0
}

// PointerUp ends any pan gesture.
func (c *Controller) PointerUp() {
	c.state = Idle
}

// PointerLeave ends any pan gesture.
func (c *Controller) PointerLeave() {
	c.state = Idle
}

// Wheel zooms around the cursor at client position p over an element with
// bounds b. A positive deltaY zooms out, anything else zooms in.
//
// It returns true when the event was consumed and the host should suppress
// default scrolling. Unmeasurable bounds or a result that would not be a valid
// viewbox leave the viewbox untouched and return false.
func (c *Controller) Wheel(p Point, deltaY float64, b Bounds) bool {
	scale := c.cfg.ZoomIn
	if deltaY > 0 {
		scale = c.cfg.ZoomOut
	}
	return c.Zoom(p, scale, b)
}

// Zoom scales the viewbox by scale, keeping the canvas point under client
// position p fixed. See [Controller.Wheel].
func (c *Controller) Zoom(p Point, scale float64, b Bounds) bool {
	if !validScale(scale) {
		return false
	}
	cursor, ok := ScreenToCanvas(p, c.view, b)
	if !ok {
		return false
	}
	local := b.Local(p)
	rx := local.X / b.Width
	ry := local.Y / b.Height

	w := c.view.W * scale
	h := c.view.H * scale
	next := Viewbox{
		X: cursor.X - rx*w,
		Y: cursor.Y - ry*h,
		W: w,
		H: h,
	}
	if !next.Valid() {
		return false
	}
	c.view = next
	return true
}

// ScreenToCanvas maps client position p through the current viewbox.
func (c *Controller) ScreenToCanvas(p Point, b Bounds) (Point, bool) {
	return ScreenToCanvas(p, c.view, b)
}

// SetViewbox replaces the viewbox. Invalid viewboxes are ignored.
func (c *Controller) SetViewbox(v Viewbox) bool {
	if !v.Valid() {
		return false
	}
	c.view = v
	return true
}

// Reset returns to the initial viewbox and the Idle state.
func (c *Controller) Reset() {
	c.view = c.cfg.Initial
	c.state = Idle
	c.anchor = Point{}
}

func validScale(s float64) bool {
	return finite(s) && s > 0
}
