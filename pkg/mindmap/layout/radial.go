package layout

import (
	"math"

	"github.com/lexora/casemap/pkg/mindmap"
)

// Default layout parameters, in canvas units.
const (
	DefaultCenterX    = 500.0
	DefaultCenterY    = 300.0
	DefaultRadiusStep = 40.0
	DefaultMaxRadius  = 400.0
)

// Config holds the radial layout parameters.
type Config struct {
	CenterX    float64 `toml:"center_x" json:"center_x"`
	CenterY    float64 `toml:"center_y" json:"center_y"`
	RadiusStep float64 `toml:"radius_step" json:"radius_step"` // radius added per node
	MaxRadius  float64 `toml:"max_radius" json:"max_radius"`
}

// DefaultConfig returns the layout centered at (500, 300) with a radius of
// 40 units per node capped at 400.
func DefaultConfig() Config {
	return Config{
		CenterX:    DefaultCenterX,
		CenterY:    DefaultCenterY,
		RadiusStep: DefaultRadiusStep,
		MaxRadius:  DefaultMaxRadius,
	}
}

// Radius returns the circle radius used for n nodes.
func Radius(n int, cfg Config) float64 {
	if n <= 1 {
		return 0
	}
	return math.Min(float64(n)*cfg.RadiusStep, cfg.MaxRadius)
}

// Radial returns nodes with a position for every node.
//
// If every node is already positioned, nodes is returned as is. Otherwise the
// result is a new slice of the same order and length; the input is not modified.
// An empty input yields an empty, non-nil slice.
func Radial(nodes []mindmap.Node, cfg Config) []mindmap.Node {
	if len(nodes) == 0 {
		return []mindmap.Node{}
	}
	if allPositioned(nodes) {
		return nodes
	}

	n := len(nodes)
	r := Radius(n, cfg)
	out := make([]mindmap.Node, n)
	for i, node := range nodes {
		if node.HasPosition() {
			out[i] = node
			continue
		}
		angle := float64(i) / float64(n) * 2 * math.Pi
		out[i] = node.WithPosition(
			cfg.CenterX+r*math.Cos(angle),
			cfg.CenterY+r*math.Sin(angle),
		)
	}
	return out
}

// allPositioned reports whether every node has both coordinates. It is true
// for an empty slice, which Radial then returns unchanged.
func allPositioned(nodes []mindmap.Node) bool {
	for _, n := range nodes {
		if !n.HasPosition() {
			return false
		}
	}
	return true
}
