package viewport

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lexora/casemap/pkg/errors"
)

// Point is a 2D coordinate. Whether it is in screen or canvas units depends
// on where it comes from.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewbox is the visible canvas rectangle. W and H must be positive.
type Viewbox struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
	W float64 `json:"w" toml:"width"`
	H float64 `json:"h" toml:"height"`
}

// Valid reports whether the viewbox is finite with positive size.
func (v Viewbox) Valid() bool {
	return finite(v.X) && finite(v.Y) && finite(v.W) && finite(v.H) && v.W > 0 && v.H > 0
}

// Center returns the canvas point at the middle of the viewbox.
func (v Viewbox) Center() Point {
	return Point{X: v.X + v.W/2, Y: v.Y + v.H/2}
}

// Contains reports whether p lies inside the viewbox (edges inclusive).
func (v Viewbox) Contains(p Point) bool {
	return p.X >= v.X && p.X <= v.X+v.W && p.Y >= v.Y && p.Y <= v.Y+v.H
}

// String returns the viewbox in SVG viewBox attribute form: "x y w h".
func (v Viewbox) String() string {
	return fmt.Sprintf("%s %s %s %s", fmtNum(v.X), fmtNum(v.Y), fmtNum(v.W), fmtNum(v.H))
}

// ParseViewbox parses "x,y,w,h". Spaces may separate the values too, so the
// SVG viewBox attribute form parses as well.
func ParseViewbox(raw string) (Viewbox, error) {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
	if len(parts) != 4 {
		return Viewbox{}, errors.New(errors.ErrCodeInvalidInput, "viewbox must be x,y,w,h")
	}
	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil || !finite(f) {
			return Viewbox{}, errors.New(errors.ErrCodeInvalidInput, "viewbox component %d is not a number: %q", i, p)
		}
		vals[i] = f
	}
	v := Viewbox{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}
	if !v.Valid() {
		return Viewbox{}, errors.New(errors.ErrCodeInvalidInput, "viewbox must have positive width and height")
	}
	return v, nil
}

// Bounds is the measured screen rectangle of the rendering element.
type Bounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether the element is measurable: finite with positive size.
func (b Bounds) Valid() bool {
	return finite(b.Left) && finite(b.Top) && finite(b.Width) && finite(b.Height) && b.Width > 0 && b.Height > 0
}

// Local converts a client-space point to element-local coordinates.
func (b Bounds) Local(p Point) Point {
	return Point{X: p.X - b.Left, Y: p.Y - b.Top}
}

// ScreenToCanvas maps a client-space point to canvas units through v.
// It returns false when b or v is degenerate.
func ScreenToCanvas(p Point, v Viewbox, b Bounds) (Point, bool) {
	if !b.Valid() || !v.Valid() {
		return Point{}, false
	}
	local := b.Local(p)
	return Point{
		X: v.X + (local.X/b.Width)*v.W,
		Y: v.Y + (local.Y/b.Height)*v.H,
	}, true
}

// CanvasToScreen maps a canvas point to client space through v.
// It returns false when b or v is degenerate.
func CanvasToScreen(p Point, v Viewbox, b Bounds) (Point, bool) {
	if !b.Valid() || !v.Valid() {
		return Point{}, false
	}
	return Point{
		X: b.Left + (p.X-v.X)/v.W*b.Width,
		Y: b.Top + (p.Y-v.Y)/v.H*b.Height,
	}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
