package game

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/renderer"
	"github.com/pthm-cable/dotfield/systems"
	"github.com/pthm-cable/dotfield/telemetry"
)

func newTestAnimator(t *testing.T, opts Options) (*Animator, *FrameLoop, *renderer.RecordingSurface) {
	t.Helper()
	loop := NewFrameLoop(800, 600)
	surf := renderer.NewRecordingSurface(800, 600)
	return NewAnimator(surf, loop, opts), loop, surf
}

func defaultOptions() Options {
	return OptionsFromConfig(config.Defaults(), 42)
}

func TestAnimatorLifecycle(t *testing.T) {
	a, loop, surf := newTestAnimator(t, defaultOptions())

	if a.State() != StateIdle {
		t.Fatalf("expected idle, got %s", a.State())
	}
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if a.State() != StateRunning {
		t.Fatalf("expected running, got %s", a.State())
	}
	if err := a.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	loop.Tick()
	if len(surf.Circles) != 25 {
		t.Errorf("expected 25 circles after first frame, got %d", len(surf.Circles))
	}
	if surf.Clears != 1 {
		t.Errorf("expected 1 clear, got %d", surf.Clears)
	}
	if loop.Pending() != 1 {
		t.Errorf("expected next frame requested, pending %d", loop.Pending())
	}

	a.Stop()
	a.Stop()
	if a.State() != StateStopped {
		t.Fatalf("expected stopped, got %s", a.State())
	}
	if err := a.Start(); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}

func TestAnimatorTeardown(t *testing.T) {
	a, loop, surf := newTestAnimator(t, defaultOptions())
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	loop.Tick()
	loop.Tick()

	a.Stop()
	clears, fills, tick := surf.Clears, surf.Fills, a.Tick()

	if loop.Pending() != 0 {
		t.Errorf("pending frame not cancelled")
	}
	if resize, pointer := loop.Listeners(); resize != 0 || pointer != 0 {
		t.Errorf("listeners not removed: resize=%d pointer=%d", resize, pointer)
	}

	// Events after teardown must not draw or step
	loop.Resize(1024, 768)
	loop.PointerMove(100, 100)
	for i := 0; i < 5; i++ {
		loop.Tick()
	}

	if surf.Clears != clears || surf.Fills != fills {
		t.Errorf("surface drawn after stop: clears %d -> %d, fills %d -> %d", clears, surf.Clears, fills, surf.Fills)
	}
	if a.Tick() != tick {
		t.Errorf("field stepped after stop: %d -> %d", tick, a.Tick())
	}
	if a.Pointer().Known {
		t.Errorf("pointer recorded after stop")
	}
}

func TestAnimatorStaleFrameCallbackIsNoop(t *testing.T) {
	a, loop, surf := newTestAnimator(t, defaultOptions())
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	loop.Tick()
	a.Stop()

	// A host that fires a callback after cancellation
	clears := surf.Clears
	a.frame()
	if surf.Clears != clears {
		t.Errorf("stale frame drew after stop")
	}
	if loop.Pending() != 0 {
		t.Errorf("stale frame requested another frame")
	}
}

func TestAnimatorStopFromAnotherGoroutine(t *testing.T) {
	a, loop, _ := newTestAnimator(t, defaultOptions())
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for a.State() == StateRunning {
			loop.Tick()
		}
	}()

	for a.Tick() < 50 {
		runtime.Gosched()
	}
	a.Stop()
	<-done

	tick := a.Tick()
	loop.Tick()
	if a.Tick() != tick {
		t.Errorf("stepped after stop: %d -> %d", tick, a.Tick())
	}
}

func TestAnimatorStopBeforeStart(t *testing.T) {
	a, loop, _ := newTestAnimator(t, defaultOptions())
	a.Stop()
	if err := a.Start(); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
	if loop.Pending() != 0 {
		t.Errorf("expected no frame requested")
	}
}

func TestAnimatorNoPointerSettles(t *testing.T) {
	a, loop, _ := newTestAnimator(t, defaultOptions())
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 1000; i++ {
		loop.Tick()
	}
	if a.Tick() != 1000 {
		t.Fatalf("expected 1000 steps, got %d", a.Tick())
	}

	f := a.Field()
	if f.Len() != 25 {
		t.Fatalf("expected 25 dots, got %d", f.Len())
	}
	for i := 0; i < f.Len(); i++ {
		p := f.Particle(i)
		if math.IsNaN(p.VX) || math.IsNaN(p.VY) || math.Abs(p.VX) > 1e-6 || math.Abs(p.VY) > 1e-6 {
			t.Errorf("dot %d velocity (%v, %v) should stay zero", i, p.VX, p.VY)
		}
		if p.Y < -5 || p.Y > 600 {
			t.Errorf("dot %d y=%v outside [-5, 600]", i, p.Y)
		}
	}
}

func TestAnimatorPointerRepels(t *testing.T) {
	a, loop, _ := newTestAnimator(t, defaultOptions())
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	loop.Tick()

	f := a.Field()
	fall := f.Particle(0).FallSpeed
	f.Place(0, 400, 300, 0, 0)
	// 40px to the left of where the dot lands after falling
	loop.PointerMove(360, 300+fall)
	loop.Tick()

	p := f.Particle(0)
	if math.Abs(p.VX-2*0.92) > 1e-9 {
		t.Errorf("expected vx=%v, got %v", 2*0.92, p.VX)
	}
	if math.Abs(p.VY) > 1e-9 {
		t.Errorf("expected vy=0, got %v", p.VY)
	}
	if a.LastStep().Repelled < 1 {
		t.Errorf("expected at least one repelled dot")
	}
}

func TestAnimatorPointerLeaveStopsRepulsion(t *testing.T) {
	a, loop, _ := newTestAnimator(t, defaultOptions())
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	loop.Tick()

	f := a.Field()
	fall := f.Particle(0).FallSpeed
	f.Place(0, 400, 300, 0, 0)
	loop.PointerMove(360, 300+fall)
	loop.PointerLeave()

	if a.Pointer().Known {
		t.Fatal("pointer still known after leaving the surface")
	}
	loop.Tick()

	if p := f.Particle(0); p.VX != 0 || p.VY != 0 {
		t.Errorf("dot repelled by a pointer that left: (%v, %v)", p.VX, p.VY)
	}
	if a.LastStep().Repelled != 0 {
		t.Errorf("expected no repelled dots, got %d", a.LastStep().Repelled)
	}
}

func TestAnimatorResizeReseeds(t *testing.T) {
	a, loop, surf := newTestAnimator(t, defaultOptions())
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	loop.Tick()

	surf.SetSize(200, 100)
	loop.Resize(200, 100)

	// Not applied until the next frame
	if b := a.Field().Bounds(); b.Width != 800 || b.Height != 600 {
		t.Fatalf("resize applied outside a frame: %+v", b)
	}

	loop.Tick()
	if b := a.Field().Bounds(); b.Width != 200 || b.Height != 100 {
		t.Fatalf("expected bounds 200x100, got %+v", b)
	}
	if a.Field().Len() != 25 {
		t.Errorf("resize changed count to %d", a.Field().Len())
	}
	// Dots drawn this frame were created inside the new bounds
	for i, c := range surf.Circles {
		if c.X < 0 || c.X >= 200 || c.Y < 0 || c.Y >= 100 {
			t.Errorf("circle %d at (%v, %v) outside new bounds", i, c.X, c.Y)
		}
	}
}

func TestAnimatorResizeWithoutReseed(t *testing.T) {
	opts := defaultOptions()
	opts.ReseedOnResize = false
	a, loop, _ := newTestAnimator(t, opts)
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	loop.Tick()

	before := a.Field().Particles(nil)
	loop.Resize(1600, 1200)
	loop.Tick()

	drawn := a.Particles()
	for i := range before {
		if drawn[i].X != before[i].X || drawn[i].Y != before[i].Y {
			t.Errorf("dot %d moved on resize: (%v, %v) -> (%v, %v)", i, before[i].X, before[i].Y, drawn[i].X, drawn[i].Y)
		}
	}
	if b := a.Field().Bounds(); b.Width != 1600 || b.Height != 1200 {
		t.Errorf("expected bounds 1600x1200, got %+v", b)
	}
}

func TestAnimatorTelemetryWindows(t *testing.T) {
	var windows []telemetry.WindowStats
	opts := defaultOptions()
	opts.Collector = telemetry.NewCollector(10, 1.0/30)
	opts.Perf = telemetry.NewPerfCollector(10, systems.NewSystemRegistry())
	opts.StatsCallback = func(s telemetry.WindowStats) { windows = append(windows, s) }

	a, loop, _ := newTestAnimator(t, opts)
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 35; i++ {
		loop.Tick()
	}

	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	for i, w := range windows {
		if w.WindowEndTick != int32((i+1)*10) {
			t.Errorf("window %d ends at %d", i, w.WindowEndTick)
		}
		if w.Dots != 25 {
			t.Errorf("window %d has %d dots", i, w.Dots)
		}
		if w.PointerFrames != 0 {
			t.Errorf("window %d counted pointer frames without a pointer", i)
		}
		// Sim time follows the collector's frame duration, not a fixed 60 fps
		if want := float64(w.WindowEndTick) / 30; math.Abs(w.SimTimeSec-want) > 1e-9 {
			t.Errorf("window %d sim time %v, expected %v", i, w.SimTimeSec, want)
		}
	}

	stats := opts.Perf.Stats()
	if stats.Frames != 10 {
		t.Errorf("expected a full perf window, got %d frames", stats.Frames)
	}
	if _, ok := stats.Phase(systems.PhaseStep); !ok {
		t.Errorf("expected step phase timing")
	}
}

func TestHeadlessRunWritesOutput(t *testing.T) {
	cfg := config.Defaults()
	cfg.Headless.Width = 320
	cfg.Headless.Height = 240
	cfg.Headless.PointerSweep = true
	cfg.Derived.WindowTicks = 20

	dir := filepath.Join(t.TempDir(), "out")
	h, err := NewHeadless(cfg, RunOptions{Seed: 7, MaxTicks: 60, OutputDir: dir})
	if err != nil {
		t.Fatalf("NewHeadless: %v", err)
	}
	if err := h.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if h.Animator().Tick() != 60 {
		t.Errorf("expected 60 ticks, got %d", h.Animator().Tick())
	}
	if h.Animator().State() != StateStopped {
		t.Errorf("expected animator stopped after run")
	}
	if !h.Animator().Pointer().Known {
		t.Errorf("pointer sweep should have moved the pointer")
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("expected header + 3 windows, got %d lines", len(lines))
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestSweepPositionStaysInside(t *testing.T) {
	for tick := 0; tick < 2000; tick += 7 {
		x, y := sweepPosition(tick, 1.0/60, 800, 600)
		if x < 0 || x > 800 || y < 0 || y > 600 {
			t.Fatalf("tick %d: sweep at (%v, %v) leaves the surface", tick, x, y)
		}
	}
}
