package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/renderer"
	"github.com/pthm-cable/dotfield/telemetry"
	"github.com/pthm-cable/dotfield/ui"
)

const controlsText = "[F1] HUD  [F11] Fullscreen  [Esc] Quit"

// Game is the windowed raylib host.
type Game struct {
	cfg      *config.Config
	run      RunOptions
	loop     *FrameLoop
	surface  *renderer.RaylibSurface
	animator *Animator
	opts     Options
	output   *telemetry.OutputManager

	// UI
	hud          *ui.HUD
	physicsPanel *ui.PhysicsPanel
	perfPanel    *ui.PerfPanel
	showHUD      bool
	physics      ui.PhysicsValues

	// Window dimensions
	screenWidth  float32
	screenHeight float32

	mouse pointerTracker
}

// NewGame prepares a raylib host. The window is opened by Run.
func NewGame(cfg *config.Config, run RunOptions) (*Game, error) {
	opts := OptionsFromConfig(cfg, run.Seed)
	out, err := newTelemetry(cfg, run, &opts)
	if err != nil {
		return nil, err
	}

	return &Game{
		cfg:     cfg,
		run:     run,
		opts:    opts,
		output:  out,
		showHUD: run.ShowHUD,
		physics: ui.PhysicsValues{
			RepulsionRadius: cfg.Physics.RepulsionRadius,
			ForceDivisor:    cfg.Physics.ForceDivisor,
			Damping:         cfg.Physics.Damping,
		},
	}, nil
}

// Run opens the window and drives the animator until the window closes.
func (g *Game) Run() error {
	defer g.Unload()

	if g.cfg.Screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(g.cfg.Screen.Width), int32(g.cfg.Screen.Height), g.cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(g.cfg.Screen.TargetFPS))

	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())

	g.loop = NewFrameLoop(float64(g.screenWidth), float64(g.screenHeight))
	g.surface = renderer.NewRaylibSurface(g.cfg.Derived.Background)
	g.animator = NewAnimator(g.surface, g.loop, g.opts)

	g.hud = ui.NewHUD()
	g.physicsPanel = ui.NewPhysicsPanel(int32(g.screenWidth)-230, 10, 220)
	g.perfPanel = ui.NewPerfPanel(10, 85)

	if err := g.animator.Start(); err != nil {
		return err
	}
	defer g.animator.Stop()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if g.run.MaxTicks > 0 && int(g.animator.Tick()) >= g.run.MaxTicks {
			slog.Info("max ticks reached", "tick", g.animator.Tick())
			break
		}
	}
	return nil
}

// Update feeds window events into the frame loop.
func (g *Game) Update() {
	g.handleInput()
}

// Draw runs one animation frame and the overlay.
func (g *Game) Draw() {
	rl.BeginDrawing()

	g.loop.Tick()

	if g.showHUD {
		g.drawHUD()
	}

	rl.EndDrawing()
}

// drawHUD renders the status text, phase timings and physics sliders.
func (g *Game) drawHUD() {
	ptr := g.animator.Pointer()
	step := g.animator.LastStep()

	g.hud.Draw(ui.HUDData{
		Title:        g.cfg.Screen.Title,
		Dots:         len(g.animator.Particles()),
		Tick:         g.animator.Tick(),
		FPS:          rl.GetFPS(),
		State:        g.animator.State().String(),
		PointerX:     ptr.X,
		PointerY:     ptr.Y,
		PointerKnown: ptr.Known,
		Wraps:        step.Wraps,
		Repelled:     step.Repelled,
	})

	g.perfPanel.Draw(g.opts.Perf.Stats())

	if g.physicsPanel.Draw(&g.physics) {
		if f := g.animator.Field(); f != nil {
			f.SetPhysics(g.physics.RepulsionRadius, g.physics.ForceDivisor, g.physics.Damping)
		}
	}

	g.hud.DrawControls(int32(g.screenHeight), controlsText)
}

// Animator returns the animator driven by this host.
func (g *Game) Animator() *Animator {
	return g.animator
}

// Unload closes the output files.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
