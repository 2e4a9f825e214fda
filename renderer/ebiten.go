package renderer

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// EbitenSurface draws onto an ebiten image. Transforms are tracked with a
// GeoM stack and applied to arc centers; only translate and rotate are
// supported, so radii are never scaled.
type EbitenSurface struct {
	target     *ebiten.Image
	background color.NRGBA
	fill       color.NRGBA
	geo        ebiten.GeoM
	stack      []ebiten.GeoM
	path       []arc
}

// NewEbitenSurface creates a surface that clears to background.
func NewEbitenSurface(background color.NRGBA) *EbitenSurface {
	return &EbitenSurface{background: background, fill: color.NRGBA{A: 255}}
}

// SetTarget points the surface at the image for the current frame and
// resets the transform stack.
func (s *EbitenSurface) SetTarget(img *ebiten.Image) {
	s.target = img
	s.geo.Reset()
	s.stack = s.stack[:0]
}

func (s *EbitenSurface) Width() int {
	if s.target == nil {
		return 0
	}
	return s.target.Bounds().Dx()
}

func (s *EbitenSurface) Height() int {
	if s.target == nil {
		return 0
	}
	return s.target.Bounds().Dy()
}

// ClearRect paints background. The transform is not applied.
func (s *EbitenSurface) ClearRect(x, y, w, h float64) {
	if s.target == nil {
		return
	}
	if x <= 0 && y <= 0 && x+w >= float64(s.Width()) && y+h >= float64(s.Height()) {
		s.target.Fill(s.background)
		return
	}
	vector.DrawFilledRect(s.target, float32(x), float32(y), float32(w), float32(h), s.background, false)
}

func (s *EbitenSurface) SetFillStyle(value ...interface{}) {
	s.fill = resolveFill(value, s.fill)
}

func (s *EbitenSurface) BeginPath() {
	s.path = s.path[:0]
}

func (s *EbitenSurface) Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool) {
	cx, cy := s.geo.Apply(x, y)
	s.path = append(s.path, arc{x: cx, y: cy, radius: radius, start: startAngle, end: endAngle})
}

// Fill draws full-circle arcs. Partial arcs are drawn as full circles.
func (s *EbitenSurface) Fill() {
	if s.target == nil {
		return
	}
	for _, a := range s.path {
		vector.DrawFilledCircle(s.target, float32(a.x), float32(a.y), float32(a.radius), s.fill, true)
	}
}

func (s *EbitenSurface) Save() {
	s.stack = append(s.stack, s.geo)
}

func (s *EbitenSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.geo = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *EbitenSurface) Translate(x, y float64) { s.geo = localTranslate(s.geo, x, y) }
func (s *EbitenSurface) Rotate(angle float64)   { s.geo = localRotate(s.geo, angle) }

// localTranslate and localRotate compose in the local frame, as on a
// canvas: the new operation is applied before the existing transform.
func localTranslate(geo ebiten.GeoM, x, y float64) ebiten.GeoM {
	var t ebiten.GeoM
	t.Translate(x, y)
	t.Concat(geo)
	return t
}

func localRotate(geo ebiten.GeoM, angle float64) ebiten.GeoM {
	var r ebiten.GeoM
	r.Rotate(math.Mod(angle, 2*math.Pi))
	r.Concat(geo)
	return r
}
