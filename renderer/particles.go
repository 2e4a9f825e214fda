package renderer

import (
	"image/color"
	"math"

	"github.com/pthm-cable/dotfield/systems"
)

// DotRenderer draws the dot field.
type DotRenderer struct {
	fill color.NRGBA
}

// NewDotRenderer creates a renderer that fills dots with the given color.
func NewDotRenderer(fill color.NRGBA) *DotRenderer {
	return &DotRenderer{fill: fill}
}

// Clear erases the whole surface.
func (r *DotRenderer) Clear(s Surface) {
	s.ClearRect(0, 0, float64(s.Width()), float64(s.Height()))
}

// Draw renders all dots as filled circles.
// Each dot is drawn in its own rotated frame; a circle looks the same at
// any angle, but the transform keeps the angle meaningful for other shapes.
func (r *DotRenderer) Draw(s Surface, particles []systems.Particle) {
	s.SetFillStyle(r.fill)
	for i := range particles {
		p := &particles[i]
		s.Save()
		s.Translate(p.X, p.Y)
		s.Rotate(p.Angle)
		s.BeginPath()
		s.Arc(0, 0, p.Radius, 0, 2*math.Pi, false)
		s.Fill()
		s.Restore()
	}
}

// SetFill changes the fill color.
func (r *DotRenderer) SetFill(c color.NRGBA) {
	r.fill = c
}
