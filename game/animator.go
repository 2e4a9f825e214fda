package game

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/renderer"
	"github.com/pthm-cable/dotfield/systems"
	"github.com/pthm-cable/dotfield/telemetry"
)

var (
	// ErrAlreadyStarted is returned by Start on a running animator.
	ErrAlreadyStarted = errors.New("animator already started")
	// ErrStopped is returned by Start after Stop. A stopped animator cannot restart.
	ErrStopped = errors.New("animator stopped")
)

// State is the animator lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Host bundles what the animator needs from its environment.
type Host interface {
	Scheduler
	Viewport
	PointerSource
}

// Options configures an Animator.
type Options struct {
	Params         systems.FieldParams
	Fill           color.NRGBA
	ReseedOnResize bool
	Seed           int64

	// Telemetry, all optional
	Collector     *telemetry.Collector
	Perf          *telemetry.PerfCollector
	Output        *telemetry.OutputManager
	LogStats      bool
	StatsCallback func(telemetry.WindowStats)
}

// OptionsFromConfig builds animator options from the loaded config.
func OptionsFromConfig(cfg *config.Config, seed int64) Options {
	return Options{
		Params:         systems.ParamsFromConfig(cfg),
		Fill:           cfg.Derived.Fill,
		ReseedOnResize: cfg.Field.ReseedOnResize,
		Seed:           seed,
	}
}

// Animator runs the dot field on a surface, one step per host frame.
type Animator struct {
	mu    sync.Mutex
	state State

	surface renderer.Surface
	host    Host
	opts    Options

	world     *ecs.World
	field     *systems.Field
	pointer   systems.Pointer
	dots      *renderer.DotRenderer
	particles []systems.Particle
	window    []systems.Particle

	pendingResize *systems.Bounds
	frameID       FrameID
	framePending  bool
	cancelResize  func()
	cancelMove    func()
	cancelLeave   func()

	tick      atomic.Int32
	lastStats systems.StepStats
}

// NewAnimator creates an idle animator. Nothing is drawn until Start.
func NewAnimator(surface renderer.Surface, host Host, opts Options) *Animator {
	return &Animator{
		surface: surface,
		host:    host,
		opts:    opts,
		dots:    renderer.NewDotRenderer(opts.Fill),
	}
}

// Start creates the dots for the current viewport, subscribes to resize and
// pointer events and requests the first frame.
func (a *Animator) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case StateRunning:
		return fmt.Errorf("start: %w", ErrAlreadyStarted)
	case StateStopped:
		return fmt.Errorf("start: %w", ErrStopped)
	}

	w, h := a.host.Size()
	a.world = ecs.NewWorld()
	a.field = systems.NewField(a.world, systems.Bounds{Width: w, Height: h}, a.opts.Params, rand.New(rand.NewSource(a.opts.Seed)))
	a.particles = make([]systems.Particle, 0, a.field.Len())

	a.cancelResize = a.host.OnResize(a.handleResize)
	a.cancelMove = a.host.OnPointerMove(a.pointer.Move)
	a.cancelLeave = a.host.OnPointerLeave(a.pointer.Forget)

	a.state = StateRunning
	a.frameID = a.host.RequestFrame(a.frame)
	a.framePending = true

	slog.Info("animator started",
		"dots", a.field.Len(),
		"width", w,
		"height", h,
		"seed", a.opts.Seed,
	)
	return nil
}

// Stop cancels the pending frame and removes the event listeners.
// It is idempotent and final.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateStopped {
		return
	}
	wasRunning := a.state == StateRunning
	a.state = StateStopped

	if a.framePending {
		a.host.CancelFrame(a.frameID)
		a.framePending = false
	}
	if a.cancelResize != nil {
		a.cancelResize()
		a.cancelResize = nil
	}
	if a.cancelMove != nil {
		a.cancelMove()
		a.cancelMove = nil
	}
	if a.cancelLeave != nil {
		a.cancelLeave()
		a.cancelLeave = nil
	}
	a.pendingResize = nil

	if wasRunning {
		slog.Info("animator stopped", "tick", a.tick.Load())
	}
}

// State returns the lifecycle state.
func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// handleResize records the new size; it is applied at the start of the next frame.
func (a *Animator) handleResize(w, h float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateRunning {
		return
	}
	a.pendingResize = &systems.Bounds{Width: w, Height: h}
}

// frame draws the current dots and advances them by one step.
func (a *Animator) frame() {
	a.mu.Lock()
	if a.state != StateRunning {
		a.mu.Unlock()
		return
	}
	a.framePending = false
	resize := a.pendingResize
	a.pendingResize = nil
	a.mu.Unlock()

	perf := a.opts.Perf
	if perf != nil {
		perf.BeginFrame()
		perf.Phase(systems.PhaseResize)
	}
	if resize != nil {
		a.field.Resize(*resize, a.opts.ReseedOnResize)
		if a.opts.Collector != nil {
			a.opts.Collector.RecordResize()
		}
		slog.Debug("field resized", "width", resize.Width, "height", resize.Height, "reseed", a.opts.ReseedOnResize)
	}

	if perf != nil {
		perf.Phase(systems.PhaseClear)
	}
	a.dots.Clear(a.surface)

	if perf != nil {
		perf.Phase(systems.PhaseDraw)
	}
	a.particles = a.field.Particles(a.particles[:0])
	a.dots.Draw(a.surface, a.particles)

	if perf != nil {
		perf.Phase(systems.PhaseStep)
	}
	ptr := a.pointer.Sample()
	a.lastStats = a.field.Step(ptr)
	tick := a.tick.Add(1)

	if perf != nil {
		perf.Phase(systems.PhaseTelemetry)
	}
	if a.opts.Collector != nil {
		a.opts.Collector.RecordStep(a.lastStats, ptr.Known)
		a.flushTelemetry(tick)
	}
	if perf != nil {
		perf.EndFrame()
	}

	a.mu.Lock()
	if a.state == StateRunning {
		a.frameID = a.host.RequestFrame(a.frame)
		a.framePending = true
	}
	a.mu.Unlock()
}

// flushTelemetry emits window stats when the collector's window is complete.
func (a *Animator) flushTelemetry(tick int32) {
	c := a.opts.Collector
	if !c.ShouldFlush(tick) {
		return
	}

	a.window = a.field.Particles(a.window[:0])
	stats := c.Flush(tick, a.window)

	var perfStats telemetry.PerfStats
	if a.opts.Perf != nil {
		perfStats = a.opts.Perf.Stats()
	}

	if a.opts.StatsCallback != nil {
		a.opts.StatsCallback(stats)
	}

	if a.opts.LogStats {
		stats.LogStats()
		if a.opts.Perf != nil {
			perfStats.LogStats()
		}
	}

	if a.opts.Output != nil {
		if err := a.opts.Output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if a.opts.Perf != nil {
			if err := a.opts.Output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
				slog.Error("failed to write perf", "error", err)
			}
		}
	}
}

// Tick returns the number of frames stepped so far.
func (a *Animator) Tick() int32 {
	return a.tick.Load()
}

// Field returns the dot field, or nil before Start.
func (a *Animator) Field() *systems.Field {
	return a.field
}

// Pointer returns the current pointer sample.
func (a *Animator) Pointer() systems.PointerSample {
	return a.pointer.Sample()
}

// LastStep returns the stats of the most recent step.
func (a *Animator) LastStep() systems.StepStats {
	return a.lastStats
}

// Particles returns the dots as drawn in the most recent frame.
func (a *Animator) Particles() []systems.Particle {
	return a.particles
}

// SetFill changes the dot color used from the next frame on.
func (a *Animator) SetFill(c color.NRGBA) {
	a.dots.SetFill(c)
}
