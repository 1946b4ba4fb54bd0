package viewport

import (
	"math"
	"testing"
)

func TestScreenToCanvas(t *testing.T) {
	v := Viewbox{X: 100, Y: 50, W: 500, H: 300}
	b := Bounds{Left: 10, Top: 20, Width: 1000, Height: 600}

	got, ok := ScreenToCanvas(Point{510, 320}, v, b)
	if !ok {
		t.Fatal("ScreenToCanvas failed on valid input")
	}
	if got != (Point{350, 200}) {
		t.Errorf("ScreenToCanvas = %+v, want (350, 200)", got)
	}

	back, ok := CanvasToScreen(got, v, b)
	if !ok || math.Abs(back.X-510) > 1e-9 || math.Abs(back.Y-320) > 1e-9 {
		t.Errorf("CanvasToScreen round trip = %+v, want (510, 320)", back)
	}
}

func TestScreenToCanvasDegenerate(t *testing.T) {
	if _, ok := ScreenToCanvas(Point{}, DefaultViewbox, Bounds{}); ok {
		t.Error("zero bounds accepted")
	}
	if _, ok := ScreenToCanvas(Point{}, Viewbox{W: 0, H: 1}, Bounds{Width: 1, Height: 1}); ok {
		t.Error("zero viewbox accepted")
	}
}

func TestViewboxString(t *testing.T) {
	tests := []struct {
		v    Viewbox
		want string
	}{
		{DefaultViewbox, "0 0 1000 600"},
		{Viewbox{X: 50, Y: 30, W: 900, H: 540}, "50 30 900 540"},
		{Viewbox{X: -12.5, Y: 0.25, W: 1, H: 2}, "-12.5 0.25 1 2"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestViewboxContains(t *testing.T) {
	v := DefaultViewbox
	if !v.Contains(Point{0, 0}) || !v.Contains(Point{1000, 600}) {
		t.Error("edges should be inclusive")
	}
	if v.Contains(Point{-1, 0}) {
		t.Error("point outside reported inside")
	}
}

func TestParseViewbox(t *testing.T) {
	tests := []struct {
		raw  string
		want Viewbox
	}{
		{"10, 20, 300, 200", Viewbox{X: 10, Y: 20, W: 300, H: 200}},
		{"0 0 1000 600", DefaultViewbox},
		{"-5,2.5,10,10", Viewbox{X: -5, Y: 2.5, W: 10, H: 10}},
	}
	for _, tt := range tests {
		got, err := ParseViewbox(tt.raw)
		if err != nil || got != tt.want {
			t.Errorf("ParseViewbox(%q) = %+v, %v, want %+v", tt.raw, got, err, tt.want)
		}
	}

	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "0,0,-1,5", "0,0,NaN,5"} {
		if _, err := ParseViewbox(bad); err == nil {
			t.Errorf("ParseViewbox(%q) should fail", bad)
		}
	}
}
