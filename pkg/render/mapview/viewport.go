package mapview

import (
	"math"

	"github.com/paulmach/orb"
)

// Margins inside the canvas, in pixels.
const (
	canvasPadding = 20.0
	titleBand     = 44.0
)

// Viewport maps world coordinates onto the pixel canvas. Y grows
// downward in pixel space, so projection flips the axis. For
// geographic data longitudes are compressed by the cosine of the
// mid-latitude so that shapes keep roughly true aspect.
type Viewport struct {
	minX, maxY float64
	cosLat     float64
	scale      float64
	offX, offY float64
}

func fitViewport(world orb.Bound, width, height int, reserveTitle, geographic bool) Viewport {
	cosLat := 1.0
	if geographic {
		mid := (world.Min.Y() + world.Max.Y()) / 2
		cosLat = math.Cos(mid * math.Pi / 180)
		if cosLat < 0.01 {
			cosLat = 0.01
		}
	}

	top := canvasPadding
	if reserveTitle {
		top += titleBand
	}
	availW := float64(width) - 2*canvasPadding
	availH := float64(height) - canvasPadding - top

	worldW := (world.Max.X() - world.Min.X()) * cosLat
	worldH := world.Max.Y() - world.Min.Y()

	var scale float64
	switch {
	case worldW <= 0 && worldH <= 0:
		scale = 1
	case worldW <= 0:
		scale = availH / worldH
	case worldH <= 0:
		scale = availW / worldW
	default:
		scale = math.Min(availW/worldW, availH/worldH)
	}

	return Viewport{
		minX:   world.Min.X(),
		maxY:   world.Max.Y(),
		cosLat: cosLat,
		scale:  scale,
		offX:   canvasPadding + (availW-worldW*scale)/2,
		offY:   top + (availH-worldH*scale)/2,
	}
}

// Project converts a world coordinate to pixel space.
func (v Viewport) Project(p orb.Point) (x, y float64) {
	x = v.offX + (p.X()-v.minX)*v.cosLat*v.scale
	y = v.offY + (v.maxY-p.Y())*v.scale
	return x, y
}

// Scale reports pixels per world unit along the vertical axis.
func (v Viewport) Scale() float64 {
	return v.scale
}
