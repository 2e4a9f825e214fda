package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/dotfield/systems"
)

// manualClock advances only when told to.
type manualClock struct {
	t time.Time
}

func (c *manualClock) now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestPerf(window int) (*PerfCollector, *manualClock) {
	clock := &manualClock{t: time.Unix(1000, 0)}
	p := NewPerfCollector(window, systems.NewSystemRegistry())
	p.now = clock.now
	return p, clock
}

// runFrame times one frame with the given phase durations, then idles
// until the next refresh.
func runFrame(p *PerfCollector, clock *manualClock, refresh time.Duration, phases map[string]time.Duration) {
	p.BeginFrame()
	var used time.Duration
	for _, info := range systems.NewSystemRegistry().All() {
		p.Phase(info.ID)
		d := phases[info.ID]
		clock.advance(d)
		used += d
	}
	p.EndFrame()
	clock.advance(refresh - used)
}

func TestPerfCollectorFramePhases(t *testing.T) {
	p, clock := newTestPerf(10)

	phases := map[string]time.Duration{
		systems.PhaseClear: 100 * time.Microsecond,
		systems.PhaseDraw:  600 * time.Microsecond,
		systems.PhaseStep:  300 * time.Microsecond,
	}
	for i := 0; i < 4; i++ {
		runFrame(p, clock, 10*time.Millisecond, phases)
	}

	stats := p.Stats()
	if stats.Frames != 4 {
		t.Fatalf("expected 4 frames, got %d", stats.Frames)
	}
	if stats.AvgFrame != time.Millisecond {
		t.Errorf("expected 1ms frames, got %v", stats.AvgFrame)
	}
	if math.Abs(stats.FPS-100) > 1e-9 {
		t.Errorf("expected 100 fps from 10ms refresh, got %v", stats.FPS)
	}

	// Phases come back in frame order
	want := []string{systems.PhaseResize, systems.PhaseClear, systems.PhaseDraw, systems.PhaseStep, systems.PhaseTelemetry}
	if len(stats.Phases) != len(want) {
		t.Fatalf("expected %d phases, got %d", len(want), len(stats.Phases))
	}
	for i, id := range want {
		if stats.Phases[i].ID != id {
			t.Errorf("phase %d is %q, expected %q", i, stats.Phases[i].ID, id)
		}
	}

	draw, ok := stats.Phase(systems.PhaseDraw)
	if !ok {
		t.Fatal("draw phase missing")
	}
	if draw.Avg != 600*time.Microsecond || math.Abs(draw.Pct-60) > 1e-9 {
		t.Errorf("draw avg %v pct %v, expected 600us and 60%%", draw.Avg, draw.Pct)
	}
	if resize, _ := stats.Phase(systems.PhaseResize); resize.Avg != 0 || resize.Pct != 0 {
		t.Errorf("idle resize phase should be zero, got %+v", resize)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	p, clock := newTestPerf(3)

	// An early slow step falls out of the window
	runFrame(p, clock, 20*time.Millisecond, map[string]time.Duration{systems.PhaseStep: 5 * time.Millisecond})
	for i := 0; i < 3; i++ {
		runFrame(p, clock, 20*time.Millisecond, map[string]time.Duration{systems.PhaseStep: time.Millisecond})
	}

	stats := p.Stats()
	if stats.Frames != 3 {
		t.Fatalf("expected window of 3, got %d", stats.Frames)
	}
	if stats.MaxFrame != time.Millisecond {
		t.Errorf("expected max frame 1ms once the slow frame rolled out, got %v", stats.MaxFrame)
	}
	if step, _ := stats.Phase(systems.PhaseStep); step.Max != time.Millisecond {
		t.Errorf("expected step max 1ms, got %v", step.Max)
	}
}

func TestPerfCollectorUnknownPhase(t *testing.T) {
	p, clock := newTestPerf(4)

	p.BeginFrame()
	p.Phase(systems.PhaseStep)
	clock.advance(2 * time.Millisecond)
	p.Phase("vsync") // ends step, times nothing
	clock.advance(3 * time.Millisecond)
	p.EndFrame()

	stats := p.Stats()
	if step, _ := stats.Phase(systems.PhaseStep); step.Avg != 2*time.Millisecond {
		t.Errorf("expected step 2ms, got %v", step.Avg)
	}
	if stats.AvgFrame != 5*time.Millisecond {
		t.Errorf("frame should include untracked time, got %v", stats.AvgFrame)
	}
	if _, ok := stats.Phase("vsync"); ok {
		t.Error("unregistered phase should not be reported")
	}
	// A single frame has no interval to derive a rate from
	if stats.FPS != 0 {
		t.Errorf("expected no fps after one frame, got %v", stats.FPS)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	p, _ := newTestPerf(10)
	stats := p.Stats()

	if stats.Frames != 0 || stats.AvgFrame != 0 || stats.FPS != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
	if len(stats.Phases) != 5 {
		t.Errorf("phases should be listed even before any frame, got %d", len(stats.Phases))
	}
}

func TestPerfStatsRows(t *testing.T) {
	p, clock := newTestPerf(10)
	for i := 0; i < 2; i++ {
		runFrame(p, clock, 16*time.Millisecond, map[string]time.Duration{
			systems.PhaseDraw: 3 * time.Millisecond,
			systems.PhaseStep: time.Millisecond,
		})
	}

	rows := p.Stats().Rows(600)
	if len(rows) != 6 {
		t.Fatalf("expected frame row + 5 phase rows, got %d", len(rows))
	}
	frame := rows[0]
	if frame.Phase != "frame" || frame.WindowEnd != 600 || frame.AvgUS != 4000 || frame.Pct != 100 {
		t.Errorf("unexpected frame row %+v", frame)
	}
	if math.Abs(frame.FPS-62.5) > 1e-9 {
		t.Errorf("expected 62.5 fps, got %v", frame.FPS)
	}
	for _, row := range rows[1:] {
		if row.WindowEnd != 600 || row.FPS != 0 {
			t.Errorf("phase row %+v should carry the window and no fps", row)
		}
		if row.Phase == systems.PhaseDraw && (row.AvgUS != 3000 || row.Pct != 75) {
			t.Errorf("unexpected draw row %+v", row)
		}
	}
}
