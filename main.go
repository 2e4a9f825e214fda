package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/game"
)

// runner is implemented by every backend host.
type runner interface {
	Run() error
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	backend := flag.String("backend", "raylib", "Backend: raylib, canvas, ebiten or headless")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N frames (0 = unlimited, headless uses config)")
	showHUD := flag.Bool("hud", false, "Show the debug HUD at start (raylib)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	run := game.RunOptions{
		Seed:      rngSeed,
		MaxTicks:  *maxTicks,
		OutputDir: *outputDir,
		LogStats:  *logStats,
		ShowHUD:   *showHUD,
	}

	var (
		host runner
		err  error
	)
	switch *backend {
	case "raylib":
		host, err = game.NewGame(cfg, run)
	case "canvas":
		host, err = game.NewCanvasGame(cfg, run)
	case "ebiten":
		host, err = game.NewEbitenGame(cfg, run)
	case "headless":
		host, err = game.NewHeadless(cfg, run)
	default:
		slog.Error("unknown backend", "backend", *backend)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("failed to initialize backend", "backend", *backend, "error", err)
		os.Exit(1)
	}

	slog.Info("starting", "backend", *backend, "seed", rngSeed, "dots", cfg.Field.Count)
	if err := host.Run(); err != nil {
		slog.Error("run failed", "backend", *backend, "error", err)
		os.Exit(1)
	}
}
