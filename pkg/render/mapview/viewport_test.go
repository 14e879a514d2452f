package mapview

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestViewportProject(t *testing.T) {
	// A 2x2 world on an 800x600 canvas with 20px padding leaves
	// 760x560; the vertical axis limits the scale to 280.
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 2}}
	vp := fitViewport(b, 800, 600, false, false)

	tests := []struct {
		name  string
		world orb.Point
		x, y  float64
	}{
		{"top left", orb.Point{0, 2}, 120, 20},
		{"bottom right", orb.Point{2, 0}, 680, 580},
		{"center", orb.Point{1, 1}, 400, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := vp.Project(tt.world)
			if x != tt.x || y != tt.y {
				t.Errorf("Project(%v) = (%v, %v), want (%v, %v)", tt.world, x, y, tt.x, tt.y)
			}
		})
	}

	if vp.Scale() != 280 {
		t.Errorf("Scale() = %v, want 280", vp.Scale())
	}
}

func TestViewportTitleBand(t *testing.T) {
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 2}}
	plain := fitViewport(b, 800, 600, false, false)
	titled := fitViewport(b, 800, 600, true, false)

	_, yPlain := plain.Project(orb.Point{0, 2})
	_, yTitled := titled.Project(orb.Point{0, 2})
	if yTitled <= yPlain {
		t.Errorf("titled top = %v, want below plain top %v", yTitled, yPlain)
	}
	if titled.Scale() >= plain.Scale() {
		t.Errorf("titled scale = %v, want below plain scale %v", titled.Scale(), plain.Scale())
	}
}

func TestViewportGeographicAspect(t *testing.T) {
	// 0.4 degrees of longitude at 60 degrees north covers the same
	// ground as 0.2 degrees of latitude, so the projected spans match.
	b := orb.Bound{Min: orb.Point{10, 59.9}, Max: orb.Point{10.4, 60.1}}
	vp := fitViewport(b, 800, 600, false, true)

	x1, y1 := vp.Project(orb.Point{10, 60.1})
	x2, y2 := vp.Project(orb.Point{10.4, 59.9})
	spanX, spanY := x2-x1, y2-y1
	if math.Abs(spanX-spanY) > 1e-6 {
		t.Errorf("projected spans = %v x %v, want equal", spanX, spanY)
	}

	// Without the correction the east-west span stretches wide.
	flat := fitViewport(b, 800, 600, false, false)
	x1, _ = flat.Project(orb.Point{10, 60.1})
	x2, _ = flat.Project(orb.Point{10.4, 59.9})
	if x2-x1 <= spanX {
		t.Errorf("flat span = %v, want above corrected span %v", x2-x1, spanX)
	}
}

func TestViewportDegenerateBound(t *testing.T) {
	b := orb.Bound{Min: orb.Point{3, 7}, Max: orb.Point{3, 7}}
	vp := fitViewport(b, 800, 600, false, false)

	x, y := vp.Project(orb.Point{3, 7})
	if x != 400 || y != 300 {
		t.Errorf("Project(point bound) = (%v, %v), want canvas center (400, 300)", x, y)
	}
}
