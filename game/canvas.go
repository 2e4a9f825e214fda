package game

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/sdlcanvas"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/telemetry"
)

// backdropCanvas paints the background color after each clear, since an
// SDL window has nothing behind a transparent canvas.
type backdropCanvas struct {
	*canvas.Canvas
	background color.NRGBA
}

func (c backdropCanvas) ClearRect(x, y, w, h float64) {
	c.Canvas.ClearRect(x, y, w, h)
	c.Canvas.SetFillStyle(c.background)
	c.Canvas.FillRect(x, y, w, h)
}

// CanvasGame hosts the animator in an SDL window through tfriedel6/canvas.
type CanvasGame struct {
	cfg    *config.Config
	run    RunOptions
	opts   Options
	output *telemetry.OutputManager
}

// NewCanvasGame prepares an SDL canvas host. The window is opened by Run.
func NewCanvasGame(cfg *config.Config, run RunOptions) (*CanvasGame, error) {
	opts := OptionsFromConfig(cfg, run.Seed)
	out, err := newTelemetry(cfg, run, &opts)
	if err != nil {
		return nil, err
	}
	return &CanvasGame{cfg: cfg, run: run, opts: opts, output: out}, nil
}

// Run opens the window and blocks until it is closed.
func (g *CanvasGame) Run() error {
	defer g.Unload()

	wnd, cv, err := sdlcanvas.CreateWindow(g.cfg.Screen.Width, g.cfg.Screen.Height, g.cfg.Screen.Title)
	if err != nil {
		return fmt.Errorf("creating sdl window: %w", err)
	}
	defer wnd.Destroy()

	loop := NewFrameLoop(float64(cv.Width()), float64(cv.Height()))
	animator := NewAnimator(backdropCanvas{Canvas: cv, background: g.cfg.Derived.Background}, loop, g.opts)

	wnd.MouseMove = func(x, y int) {
		loop.PointerMove(float64(x), float64(y))
	}
	// Events sdlcanvas does not handle itself arrive here
	wnd.Event = func(event sdl.Event) {
		if e, ok := event.(*sdl.WindowEvent); ok && e.Event == sdl.WINDOWEVENT_LEAVE {
			loop.PointerLeave()
		}
	}
	wnd.SizeChange = func(w, h int) {
		loop.Resize(float64(w), float64(h))
	}
	wnd.KeyDown = func(scancode int, rn rune, name string) {
		if name == "Escape" {
			wnd.Close()
		}
	}

	if err := animator.Start(); err != nil {
		return err
	}
	defer animator.Stop()

	wnd.MainLoop(func() {
		loop.Tick()

		if g.run.MaxTicks > 0 && int(animator.Tick()) >= g.run.MaxTicks {
			slog.Info("max ticks reached", "tick", animator.Tick())
			wnd.Close()
		}
	})
	return nil
}

// Unload closes the output files.
func (g *CanvasGame) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
