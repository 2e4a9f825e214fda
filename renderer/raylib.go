package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaylibSurface draws onto the raylib window through the rlgl matrix stack.
// Calls must happen between rl.BeginDrawing and rl.EndDrawing, or inside
// texture mode when a fixed size is set.
type RaylibSurface struct {
	background    color.NRGBA
	fill          color.NRGBA
	path          []arc
	width, height int // 0 = follow the window
}

// NewRaylibSurface creates a surface that clears to background.
// A window has no transparent pixels, so ClearRect paints background.
func NewRaylibSurface(background color.NRGBA) *RaylibSurface {
	return &RaylibSurface{background: background, fill: color.NRGBA{A: 255}}
}

// SetSize pins the surface size, e.g. for a render texture. Zero follows the window.
func (s *RaylibSurface) SetSize(width, height int) {
	s.width, s.height = width, height
}

func (s *RaylibSurface) Width() int {
	if s.width > 0 {
		return s.width
	}
	return rl.GetScreenWidth()
}

func (s *RaylibSurface) Height() int {
	if s.height > 0 {
		return s.height
	}
	return rl.GetScreenHeight()
}

func (s *RaylibSurface) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && x+w >= float64(s.Width()) && y+h >= float64(s.Height()) {
		rl.ClearBackground(toRL(s.background))
		return
	}
	rl.DrawRectangleRec(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}, toRL(s.background))
}

func (s *RaylibSurface) SetFillStyle(value ...interface{}) {
	s.fill = resolveFill(value, s.fill)
}

func (s *RaylibSurface) BeginPath() {
	s.path = s.path[:0]
}

func (s *RaylibSurface) Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool) {
	if anticlockwise {
		startAngle, endAngle = endAngle, startAngle
	}
	s.path = append(s.path, arc{x: x, y: y, radius: radius, start: startAngle, end: endAngle})
}

// Fill draws each arc as a circle, or a sector when it is not closed.
func (s *RaylibSurface) Fill() {
	col := toRL(s.fill)
	for _, a := range s.path {
		center := rl.Vector2{X: float32(a.x), Y: float32(a.y)}
		if math.Abs(a.end-a.start) >= 2*math.Pi-1e-9 {
			rl.DrawCircleV(center, float32(a.radius), col)
			continue
		}
		rl.DrawCircleSector(center, float32(a.radius),
			float32(a.start*180/math.Pi), float32(a.end*180/math.Pi), 16, col)
	}
}

func (s *RaylibSurface) Save()    { rl.PushMatrix() }
func (s *RaylibSurface) Restore() { rl.PopMatrix() }

func (s *RaylibSurface) Translate(x, y float64) {
	rl.Translatef(float32(x), float32(y), 0)
}

func (s *RaylibSurface) Rotate(angle float64) {
	rl.Rotatef(float32(angle*180/math.Pi), 0, 0, 1)
}

func toRL(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
