// Package renderer draws the dot field onto 2D surfaces.
package renderer

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Surface is a 2D raster target with an HTML-canvas style API.
// *canvas.Canvas from github.com/tfriedel6/canvas satisfies it as is;
// RaylibSurface, EbitenSurface and RecordingSurface adapt the others.
type Surface interface {
	Width() int
	Height() int

	ClearRect(x, y, w, h float64)
	SetFillStyle(value ...interface{})

	BeginPath()
	Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool)
	Fill()

	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)
}

// arc is one sub-path recorded between BeginPath and Fill.
type arc struct {
	x, y, radius float64
	start, end   float64
}

// resolveFill turns a fill style argument into a color.
// Accepted forms: a color.Color, or a "#rrggbb" string.
func resolveFill(value []interface{}, fallback color.NRGBA) color.NRGBA {
	if len(value) == 0 {
		return fallback
	}
	switch v := value[0].(type) {
	case color.NRGBA:
		return v
	case color.Color:
		return color.NRGBAModel.Convert(v).(color.NRGBA)
	case string:
		c, err := colorful.Hex(v)
		if err != nil {
			return fallback
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return fallback
}
