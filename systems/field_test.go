package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
)

func newTestField(t *testing.T, w, h float64) *Field {
	t.Helper()
	return NewField(ecs.NewWorld(), Bounds{Width: w, Height: h}, DefaultParams(), rand.New(rand.NewSource(1)))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func TestNewFieldRanges(t *testing.T) {
	f := newTestField(t, 800, 600)

	if f.Len() != 25 {
		t.Fatalf("expected 25 dots, got %d", f.Len())
	}

	for i, p := range f.Particles(nil) {
		if p.X < 0 || p.X >= 800 || p.Y < 0 || p.Y >= 600 {
			t.Errorf("dot %d outside bounds: (%f, %f)", i, p.X, p.Y)
		}
		if p.Radius < 2 || p.Radius >= 4 {
			t.Errorf("dot %d radius %f outside [2, 4)", i, p.Radius)
		}
		if p.FallSpeed < 0.5 || p.FallSpeed >= 1.7 {
			t.Errorf("dot %d fall speed %f outside [0.5, 1.7)", i, p.FallSpeed)
		}
		if p.Angle < 0 || p.Angle >= 2*math.Pi {
			t.Errorf("dot %d angle %f outside [0, 2pi)", i, p.Angle)
		}
		if math.Abs(p.AngVel) > 0.01 {
			t.Errorf("dot %d angular speed %f outside [-0.01, 0.01]", i, p.AngVel)
		}
		if p.VX != 0 || p.VY != 0 {
			t.Errorf("dot %d should start at rest, got (%f, %f)", i, p.VX, p.VY)
		}
	}
}

func TestStepNoPointer(t *testing.T) {
	f := newTestField(t, 800, 600)

	for step := 0; step < 1000; step++ {
		f.Step(PointerSample{})
		for i, p := range f.Particles(nil) {
			if p.Y < -5 || p.Y > 600 {
				t.Fatalf("step %d: dot %d y=%f outside [-5, 600]", step, i, p.Y)
			}
		}
	}

	for i, p := range f.Particles(nil) {
		if !finite(p.VX) || !finite(p.VY) {
			t.Errorf("dot %d has non-finite velocity (%f, %f)", i, p.VX, p.VY)
		}
		if math.Abs(p.VX) >= 1e-6 || math.Abs(p.VY) >= 1e-6 {
			t.Errorf("dot %d velocity (%g, %g) did not stay at rest", i, p.VX, p.VY)
		}
	}
}

func TestStepShapeIsFixed(t *testing.T) {
	f := newTestField(t, 800, 600)
	before := f.Particles(nil)

	for step := 0; step < 500; step++ {
		f.Step(PointerSample{X: 400, Y: 300, Known: true})
	}

	after := f.Particles(nil)
	for i := range before {
		if before[i].Radius != after[i].Radius ||
			before[i].FallSpeed != after[i].FallSpeed ||
			before[i].AngVel != after[i].AngVel {
			t.Errorf("dot %d shape changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestStepWrap(t *testing.T) {
	f := newTestField(t, 800, 600)
	f.Place(0, 123, 601, 0, 0)

	stats := f.Step(PointerSample{})

	p := f.Particle(0)
	if p.Y != -5 {
		t.Errorf("expected wrapped y=-5, got %f", p.Y)
	}
	if p.VX != 0 || p.VY != 0 {
		t.Errorf("expected zero velocity after wrap, got (%f, %f)", p.VX, p.VY)
	}
	if p.X < 0 || p.X >= 800 {
		t.Errorf("expected new x in [0, 800), got %f", p.X)
	}
	if stats.Wraps < 1 {
		t.Errorf("expected wrap to be counted, got %d", stats.Wraps)
	}
}

func TestStepWrapClearsVelocity(t *testing.T) {
	f := newTestField(t, 800, 600)
	f.Place(0, 100, 590, 3, 20)

	f.Step(PointerSample{})

	p := f.Particle(0)
	if p.Y != -5 || p.VX != 0 || p.VY != 0 {
		t.Errorf("expected reset to y=-5 at rest, got y=%f v=(%f, %f)", p.Y, p.VX, p.VY)
	}
}

func TestStepRepulsion(t *testing.T) {
	tests := []struct {
		name   string
		offset float64 // pointer distance to the left of the dot after it moves
		wantVX float64
	}{
		{"inside radius", 40, 2 * 0.92},
		{"on boundary", 80, 0},
		{"outside radius", 120, 0},
		{"coincident", 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestField(t, 800, 600)
			f.Place(0, 400, 300, 0, 0)
			fall := f.Particle(0).FallSpeed

			// Pointer level with where the dot will be after falling
			f.Step(PointerSample{X: 400 - tc.offset, Y: 300 + fall, Known: true})

			p := f.Particle(0)
			if math.Abs(p.VX-tc.wantVX) > 1e-9 {
				t.Errorf("expected vx=%f, got %f", tc.wantVX, p.VX)
			}
			if math.Abs(p.VY) > 1e-9 {
				t.Errorf("expected vy=0, got %f", p.VY)
			}
			if !finite(p.VX) || !finite(p.VY) {
				t.Errorf("non-finite velocity (%f, %f)", p.VX, p.VY)
			}
		})
	}
}

func TestStepPointerNearTopStaysInRange(t *testing.T) {
	f := newTestField(t, 800, 600)

	// A pointer just below the top edge keeps kicking dots upward
	ptr := PointerSample{X: 400, Y: 10, Known: true}
	for step := 0; step < 2000; step++ {
		f.Step(ptr)
		for i, p := range f.Particles(nil) {
			if p.Y < -5 || p.Y > 600 {
				t.Fatalf("step %d: dot %d y=%f outside [-5, 600]", step, i, p.Y)
			}
		}
	}
}

func TestStepClampsAtRespawnLine(t *testing.T) {
	f := newTestField(t, 800, 600)
	f.Place(0, 400, 0, 3, -20)

	f.Step(PointerSample{})

	p := f.Particle(0)
	if p.Y != -5 {
		t.Errorf("expected y clamped to -5, got %f", p.Y)
	}
	if p.VY != 0 {
		t.Errorf("expected upward velocity cancelled, got %f", p.VY)
	}
	if math.Abs(p.VX-3*0.92) > 1e-9 {
		t.Errorf("horizontal drift should survive the clamp, got %f", p.VX)
	}
}

func TestStepUnknownPointerIgnored(t *testing.T) {
	f := newTestField(t, 800, 600)
	f.Place(0, 400, 300, 0, 0)

	// Coordinates are set but the pointer was never observed
	f.Step(PointerSample{X: 400, Y: 300})

	p := f.Particle(0)
	if p.VX != 0 || p.VY != 0 {
		t.Errorf("unknown pointer should not repel, got (%f, %f)", p.VX, p.VY)
	}
}

func TestDampingDecay(t *testing.T) {
	f := newTestField(t, 800, 1e9) // tall enough that nothing wraps
	f.Place(0, 400, 0, 10, -10)

	for i := 0; i < 300; i++ {
		f.Step(PointerSample{})
	}

	p := f.Particle(0)
	if math.Abs(p.VX) > 1e-6 || math.Abs(p.VY) > 1e-6 {
		t.Errorf("expected velocity to decay toward zero, got (%g, %g)", p.VX, p.VY)
	}
}

func TestResize(t *testing.T) {
	f := newTestField(t, 800, 600)
	before := f.Particles(nil)

	f.Resize(Bounds{Width: 200, Height: 100}, false)
	if got := f.Particles(nil); got[0] != before[0] {
		t.Errorf("resize without reseed changed dot state")
	}

	f.Resize(Bounds{Width: 200, Height: 100}, true)
	after := f.Particles(nil)
	if len(after) != 25 {
		t.Fatalf("reseed changed count to %d", len(after))
	}
	for i, p := range after {
		if p.X < 0 || p.X >= 200 || p.Y < 0 || p.Y >= 100 {
			t.Errorf("dot %d outside new bounds: (%f, %f)", i, p.X, p.Y)
		}
	}
}

func TestZeroBounds(t *testing.T) {
	f := newTestField(t, 0, 0)

	for i := 0; i < 10; i++ {
		f.Step(PointerSample{X: 0, Y: 0, Known: true})
	}

	for i, p := range f.Particles(nil) {
		if !finite(p.X) || !finite(p.Y) || !finite(p.VX) || !finite(p.VY) {
			t.Errorf("dot %d not finite on empty surface: %+v", i, p)
		}
	}
}

func TestRepel(t *testing.T) {
	tests := []struct {
		name         string
		dx, dy       float64
		wantX, wantY float64
		wantOK       bool
	}{
		{"distance 40 right", 40, 0, 2, 0, true},
		{"distance 40 up", 0, -40, 0, -2, true},
		{"diagonal", 30, 40, 1.5 * 0.6, 1.5 * 0.8, true},
		{"boundary", 80, 0, 0, 0, false},
		{"outside", 0, 81, 0, 0, false},
		{"coincident", 0, 0, 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ix, iy, ok := Repel(tc.dx, tc.dy, 80, 20)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v", tc.wantOK, ok)
			}
			if math.Abs(ix-tc.wantX) > 1e-9 || math.Abs(iy-tc.wantY) > 1e-9 {
				t.Errorf("expected (%f, %f), got (%f, %f)", tc.wantX, tc.wantY, ix, iy)
			}
		})
	}
}

func TestPointer(t *testing.T) {
	var p Pointer
	if p.Sample().Known {
		t.Fatal("pointer should start unknown")
	}

	p.Move(10, 20)
	s := p.Sample()
	if !s.Known || s.X != 10 || s.Y != 20 {
		t.Errorf("unexpected sample %+v", s)
	}

	p.Forget()
	if p.Sample().Known {
		t.Error("pointer should be unknown after Forget")
	}
}
