// Package svg renders a mind-map scene as a standalone SVG document.
//
// The output mirrors the interactive view: an arrowhead marker, one line per
// renderable edge ending at the target's border with its label at the midpoint, and a rounded box per node
// with a centered label. The document's viewBox is the scene's viewbox, so the
// same scene renders the same frame the user is looking at.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/view"
)

// Colors used by the default theme.
const (
	colorEdge      = "#9ca3af"
	colorEdgeLabel = "#6b7280"
	colorNodeFill  = "white"
	colorNodeLine  = "#6366f1"
	colorSelected  = "#f59e0b"
	colorText      = "#1e293b"
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	width, height string
	title         string
	nodeW, nodeH  float64
	selected      string
	background    string
}

// WithSize sets the width and height attributes of the root element.
// Defaults to 100% so the document fills its container.
func WithSize(w, h float64) Option {
	return func(r *renderer) {
		if w > 0 && h > 0 {
			r.width, r.height = num(w), num(h)
		}
	}
}

// WithTitle adds a <title> element.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// WithNodeBox sets the node box size in canvas units.
func WithNodeBox(w, h float64) Option {
	return func(r *renderer) {
		if w > 0 && h > 0 {
			r.nodeW, r.nodeH = w, h
		}
	}
}

// WithSelected highlights the node with the given id.
func WithSelected(id string) Option { return func(r *renderer) { r.selected = id } }

// WithBackground fills the canvas with color.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// Render draws s. The output is deterministic for a given scene and options.
func Render(s view.Scene, opts ...Option) []byte {
	r := renderer{
		width:  "100%",
		height: "100%",
		nodeW:  view.DefaultNodeWidth,
		nodeH:  view.DefaultNodeHeight,
	}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s" width="%s" height="%s">`+"\n",
		s.Viewbox.String(), r.width, r.height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}
	renderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(s.Viewbox.X), num(s.Viewbox.Y), num(s.Viewbox.W), num(s.Viewbox.H), escape(r.background))
	}

	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range s.Edges {
		r.renderEdge(&buf, e)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range s.Nodes {
		if !n.HasPosition() {
			continue
		}
		r.renderNode(&buf, n)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderEmpty draws the placeholder shown when there is no mind map.
func RenderEmpty(message string) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1000 600" width="100%" height="100%">` + "\n")
	fmt.Fprintf(&buf, `  <text x="500" y="300" text-anchor="middle" fill="#64748b" font-size="16">%s</text>`+"\n", escape(message))
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <marker id="arrow" viewBox="0 0 10 10" refX="8" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">`+"\n")
	fmt.Fprintf(buf, `      <path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>`+"\n", colorEdge)
	buf.WriteString("    </marker>\n")
	buf.WriteString("  </defs>\n")
}

// renderEdge draws s from the source center to the border of the target box,
// so the arrowhead is not hidden under the target node. The label stays at
// the midpoint between the two centers.
func (r *renderer) renderEdge(buf *bytes.Buffer, s mindmap.Segment) {
	x1, y1 := s.From.Position()
	x2, y2 := r.clipToBox(x1, y1, s.To)
	mx, my := s.Midpoint()
	buf.WriteString("    <g>\n")
	fmt.Fprintf(buf, `      <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2" marker-end="url(#arrow)"/>`+"\n",
		num(x1), num(y1), num(x2), num(y2), colorEdge)
	if s.Edge.Label != "" {
		fmt.Fprintf(buf, `      <text x="%s" y="%s" dy="-5" text-anchor="middle" fill="%s" font-size="12" paint-order="stroke" stroke="#fff" stroke-width="3">%s</text>`+"\n",
			num(mx), num(my), colorEdgeLabel, escape(s.Edge.Label))
	}
	buf.WriteString("    </g>\n")
}

// clipToBox returns where the line from (x, y) to the center of n enters n's
// box. Overlapping boxes keep the center.
func (r *renderer) clipToBox(x, y float64, n mindmap.Node) (float64, float64) {
	cx, cy := n.Position()
	dx, dy := cx-x, cy-y
	t := math.Inf(1)
	if dx != 0 {
		t = math.Min(t, r.nodeW/2/math.Abs(dx))
	}
	if dy != 0 {
		t = math.Min(t, r.nodeH/2/math.Abs(dy))
	}
	if t >= 1 {
		return cx, cy
	}
	return cx - dx*t, cy - dy*t
}

func (r *renderer) renderNode(buf *bytes.Buffer, n mindmap.Node) {
	x, y := n.Position()
	stroke := colorNodeLine
	if r.selected != "" && n.ID == r.selected {
		stroke = colorSelected
	}
	fmt.Fprintf(buf, `    <g id="node-%s" data-id="%s" transform="translate(%s, %s)">`+"\n",
		escape(n.ID), escape(n.ID), num(x), num(y))
	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" rx="8" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		num(-r.nodeW/2), num(-r.nodeH/2), num(r.nodeW), num(r.nodeH), colorNodeFill, stroke)
	fmt.Fprintf(buf, `      <text text-anchor="middle" dominant-baseline="middle" fill="%s" font-size="14" font-weight="500">%s</text>`+"\n",
		colorText, escape(n.DisplayLabel()))
	buf.WriteString("    </g>\n")
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
