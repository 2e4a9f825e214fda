package game

import (
	"errors"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/renderer"
	"github.com/pthm-cable/dotfield/telemetry"
)

// EbitenGame hosts the animator as an ebiten.Game. Update forwards input,
// Draw runs the animation frame against the screen image.
type EbitenGame struct {
	cfg      *config.Config
	run      RunOptions
	opts     Options
	output   *telemetry.OutputManager
	loop     *FrameLoop
	surface  *renderer.EbitenSurface
	animator *Animator

	width, height int
	mouse         pointerTracker
}

// NewEbitenGame prepares an ebiten host. The window is opened by Run.
func NewEbitenGame(cfg *config.Config, run RunOptions) (*EbitenGame, error) {
	opts := OptionsFromConfig(cfg, run.Seed)
	out, err := newTelemetry(cfg, run, &opts)
	if err != nil {
		return nil, err
	}

	w, h := cfg.Screen.Width, cfg.Screen.Height
	loop := NewFrameLoop(float64(w), float64(h))
	surface := renderer.NewEbitenSurface(cfg.Derived.Background)
	return &EbitenGame{
		cfg:      cfg,
		run:      run,
		opts:     opts,
		output:   out,
		loop:     loop,
		surface:  surface,
		animator: NewAnimator(surface, loop, opts),
		width:    w,
		height:   h,
	}, nil
}

// Run opens the window and blocks until it is closed.
func (g *EbitenGame) Run() error {
	defer g.Unload()

	ebiten.SetWindowSize(g.cfg.Screen.Width, g.cfg.Screen.Height)
	ebiten.SetWindowTitle(g.cfg.Screen.Title)
	if g.cfg.Screen.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(g.cfg.Screen.TargetFPS)

	if err := g.animator.Start(); err != nil {
		return err
	}
	defer g.animator.Stop()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Update implements ebiten.Game.
func (g *EbitenGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	x, y := ebiten.CursorPosition()
	inside := x >= 0 && y >= 0 && x < g.width && y < g.height
	g.mouse.update(g.loop, float64(x), float64(y), inside)

	if g.run.MaxTicks > 0 && int(g.animator.Tick()) >= g.run.MaxTicks {
		slog.Info("max ticks reached", "tick", g.animator.Tick())
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *EbitenGame) Draw(screen *ebiten.Image) {
	g.surface.SetTarget(screen)
	g.loop.Tick()
}

// Layout implements ebiten.Game. The logical screen follows the window, so
// a window resize is a viewport resize.
func (g *EbitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.loop.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Unload closes the output files.
func (g *EbitenGame) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
