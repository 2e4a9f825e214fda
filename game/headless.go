package game

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/renderer"
	"github.com/pthm-cable/dotfield/systems"
	"github.com/pthm-cable/dotfield/telemetry"
)

// RunOptions holds the command line settings shared by all backends.
type RunOptions struct {
	Seed      int64
	MaxTicks  int // 0 = unlimited (headless uses config)
	OutputDir string
	LogStats  bool
	ShowHUD   bool
}

// newTelemetry wires the collectors and the optional CSV output into opts.
func newTelemetry(cfg *config.Config, run RunOptions, opts *Options) (*telemetry.OutputManager, error) {
	out, err := telemetry.NewOutputManager(run.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := out.WriteConfig(cfg); err != nil {
		out.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	opts.Perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow, systems.NewSystemRegistry())
	if run.LogStats || out != nil {
		opts.Collector = telemetry.NewCollector(cfg.Derived.WindowTicks, cfg.Derived.DT)
	}
	opts.Output = out
	opts.LogStats = run.LogStats
	return out, nil
}

// Headless runs the field against a RecordingSurface with no window.
type Headless struct {
	cfg      *config.Config
	loop     *FrameLoop
	surface  *renderer.RecordingSurface
	animator *Animator
	output   *telemetry.OutputManager
	maxTicks int
	sweep    bool
	dt       float64
}

// NewHeadless creates a headless host sized from the headless config.
func NewHeadless(cfg *config.Config, run RunOptions) (*Headless, error) {
	w, h := cfg.Headless.Width, cfg.Headless.Height

	opts := OptionsFromConfig(cfg, run.Seed)
	out, err := newTelemetry(cfg, run, &opts)
	if err != nil {
		return nil, err
	}

	maxTicks := run.MaxTicks
	if maxTicks <= 0 {
		maxTicks = cfg.Headless.MaxTicks
	}

	loop := NewFrameLoop(float64(w), float64(h))
	surface := renderer.NewRecordingSurface(w, h)
	return &Headless{
		cfg:      cfg,
		loop:     loop,
		surface:  surface,
		animator: NewAnimator(surface, loop, opts),
		output:   out,
		maxTicks: maxTicks,
		sweep:    cfg.Headless.PointerSweep,
		dt:       cfg.Derived.DT,
	}, nil
}

// Run starts the animator and ticks the loop until maxTicks frames have run.
func (g *Headless) Run() error {
	defer g.Unload()

	if err := g.animator.Start(); err != nil {
		return err
	}
	defer g.animator.Stop()

	slog.Info("starting headless run",
		"max_ticks", g.maxTicks,
		"width", g.surface.Width(),
		"height", g.surface.Height(),
		"pointer_sweep", g.sweep,
	)

	for int(g.animator.Tick()) < g.maxTicks {
		if g.sweep {
			x, y := sweepPosition(int(g.animator.Tick()), g.dt, float64(g.surface.Width()), float64(g.surface.Height()))
			g.loop.PointerMove(x, y)
		}
		g.loop.Tick()
	}

	slog.Info("max ticks reached", "tick", g.animator.Tick(), "circles", len(g.surface.Circles))
	return nil
}

// Resize changes the surface size and notifies the animator.
func (g *Headless) Resize(w, h int) {
	g.surface.SetSize(w, h)
	g.loop.Resize(float64(w), float64(h))
}

// Animator returns the animator driven by this host.
func (g *Headless) Animator() *Animator {
	return g.animator
}

// Surface returns the recording surface.
func (g *Headless) Surface() *renderer.RecordingSurface {
	return g.surface
}

// Unload closes the output files.
func (g *Headless) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// sweepPosition moves a synthetic pointer along a slow Lissajous path
// covering the middle of the surface.
func sweepPosition(tick int, dt, w, h float64) (float64, float64) {
	t := float64(tick) * dt
	x := w/2 + w*0.4*math.Sin(t*0.7)
	y := h/2 + h*0.4*math.Sin(t*1.1)
	return x, y
}
