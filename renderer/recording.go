package renderer

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Circle is a filled circle in surface coordinates.
type Circle struct {
	X, Y, Radius float64
	Color        color.NRGBA
}

// RecordingSurface keeps the circles filled since the last full clear
// instead of rasterizing them. Headless runs and tests draw into it.
type RecordingSurface struct {
	width, height int

	fill  color.NRGBA
	geo   ebiten.GeoM
	stack []ebiten.GeoM
	path  []arc

	// Circles drawn since the last full-surface clear.
	Circles []Circle

	// Counters over the surface lifetime.
	Clears   int
	Fills    int
	MaxDepth int
}

// NewRecordingSurface creates a recording surface of the given size.
func NewRecordingSurface(width, height int) *RecordingSurface {
	return &RecordingSurface{
		width:  width,
		height: height,
	}
}

// SetSize changes the surface size, as a window resize would.
func (s *RecordingSurface) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *RecordingSurface) Width() int  { return s.width }
func (s *RecordingSurface) Height() int { return s.height }

// ClearRect forgets recorded circles when the whole surface is cleared.
func (s *RecordingSurface) ClearRect(x, y, w, h float64) {
	s.Clears++
	if x <= 0 && y <= 0 && x+w >= float64(s.width) && y+h >= float64(s.height) {
		s.Circles = s.Circles[:0]
	}
}

func (s *RecordingSurface) SetFillStyle(value ...interface{}) {
	s.fill = resolveFill(value, s.fill)
}

func (s *RecordingSurface) BeginPath() {
	s.path = s.path[:0]
}

func (s *RecordingSurface) Arc(x, y, radius, startAngle, endAngle float64, anticlockwise bool) {
	s.path = append(s.path, arc{x: x, y: y, radius: radius, start: startAngle, end: endAngle})
}

// Fill records every full-circle arc of the current path.
func (s *RecordingSurface) Fill() {
	s.Fills++
	for _, a := range s.path {
		if math.Abs(a.end-a.start) < 2*math.Pi-1e-9 {
			continue
		}
		cx, cy := s.geo.Apply(a.x, a.y)
		s.Circles = append(s.Circles, Circle{X: cx, Y: cy, Radius: a.radius, Color: s.fill})
	}
}

func (s *RecordingSurface) Save() {
	s.stack = append(s.stack, s.geo)
	if len(s.stack) > s.MaxDepth {
		s.MaxDepth = len(s.stack)
	}
}

func (s *RecordingSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.geo = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *RecordingSurface) Translate(x, y float64) { s.geo = localTranslate(s.geo, x, y) }
func (s *RecordingSurface) Rotate(angle float64)   { s.geo = localRotate(s.geo, angle) }

// Depth returns the current Save nesting depth.
func (s *RecordingSurface) Depth() int {
	return len(s.stack)
}
