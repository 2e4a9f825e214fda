// Dot field preview tool - interactive physics tuning with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/renderer"
	"github.com/pthm-cable/dotfield/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewW     = 720
	previewH     = 700
	panelWidth   = windowWidth - previewW - 30
)

// PreviewParams holds the tunable field parameters.
type PreviewParams struct {
	Count           float32
	RepulsionRadius float32
	ForceDivisor    float32
	Damping         float32
	FallSpeedMin    float32
	FallSpeedMax    float32
	Seed            float32
}

func defaultParams() PreviewParams {
	d := systems.DefaultParams()
	return PreviewParams{
		Count:           float32(d.Count),
		RepulsionRadius: float32(d.RepulsionRadius),
		ForceDivisor:    float32(d.ForceDivisor),
		Damping:         float32(d.Damping),
		FallSpeedMin:    float32(d.FallSpeedMin),
		FallSpeedMax:    float32(d.FallSpeedMax),
		Seed:            1,
	}
}

// newField builds a fresh field from the slider values.
func newField(p PreviewParams) *systems.Field {
	fp := systems.DefaultParams()
	fp.Count = int(p.Count)
	fp.RepulsionRadius = float64(p.RepulsionRadius)
	fp.ForceDivisor = float64(p.ForceDivisor)
	fp.Damping = float64(p.Damping)
	fp.FallSpeedMin = float64(p.FallSpeedMin)
	fp.FallSpeedMax = float64(p.FallSpeedMax)
	if fp.FallSpeedMax < fp.FallSpeedMin {
		fp.FallSpeedMax = fp.FallSpeedMin
	}
	bounds := systems.Bounds{Width: previewW, Height: previewH}
	return systems.NewField(ecs.NewWorld(), bounds, fp, rand.New(rand.NewSource(int64(p.Seed))))
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Dot Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := defaultParams()
	field := newField(params)

	// Dots draw inside a render texture so the panel is never cleared by the field
	target := rl.LoadRenderTexture(previewW, previewH)
	defer rl.UnloadRenderTexture(target)

	cfg := config.Defaults()
	surface := renderer.NewRaylibSurface(cfg.Derived.Background)
	surface.SetSize(previewW, previewH)
	dots := renderer.NewDotRenderer(cfg.Derived.Fill)
	var particles []systems.Particle
	var pointer systems.Pointer

	paused := false
	needsReset := false

	for !rl.WindowShouldClose() {
		if needsReset {
			field = newField(params)
			needsReset = false
		}

		// Pointer only counts inside the preview
		mouse := rl.GetMousePosition()
		px, py := float64(mouse.X-10), float64(mouse.Y-10)
		if px >= 0 && py >= 0 && px < previewW && py < previewH {
			pointer.Move(px, py)
		} else {
			pointer.Forget()
		}

		rl.BeginTextureMode(target)
		particles = field.Particles(particles[:0])
		dots.Clear(surface)
		dots.Draw(surface, particles)
		rl.EndTextureMode()

		var stats systems.StepStats
		if !paused {
			stats = field.Step(pointer.Sample())
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Render textures are stored upside down
		rl.DrawTexturePro(
			target.Texture,
			rl.Rectangle{X: 0, Y: 0, Width: previewW, Height: -previewH},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		// Control panel
		panelX := float32(previewW + 20)
		panelY := float32(10)

		rl.DrawText("Dot Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, minText, maxText, format string, value *float32, min, max float32, reset bool) {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				minText, maxText,
				*value, min, max,
			)
			rl.DrawText(fmt.Sprintf(format, *value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if next != *value {
				*value = next
				if reset {
					needsReset = true
				} else {
					field.SetPhysics(float64(params.RepulsionRadius), float64(params.ForceDivisor), float64(params.Damping))
				}
			}
			panelY += 35
		}

		slider("Count", "1", "500", "%.0f", &params.Count, 1, 500, true)
		slider("Pointer radius", "10", "300", "%.0f", &params.RepulsionRadius, 10, 300, false)
		slider("Force divisor", "1", "100", "%.1f", &params.ForceDivisor, 1, 100, false)
		slider("Damping", "0.5", "1.0", "%.3f", &params.Damping, 0.5, 1, false)
		slider("Fall speed min", "0", "5", "%.2f", &params.FallSpeedMin, 0, 5, true)
		slider("Fall speed max", "0", "5", "%.2f", &params.FallSpeedMax, 0, 5, true)
		slider("Seed", "0", "9999", "%.0f", &params.Seed, 0, 9999, true)

		panelY += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsReset = true
		}
		panelY += 45

		rl.DrawText(fmt.Sprintf("Wraps: %d  Repelled: %d", stats.Wraps, stats.Repelled), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 30

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			out := ""
			for _, line := range yamlLines(params) {
				out += line + "\n"
			}
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()
	}
}

func yamlLines(p PreviewParams) []string {
	return []string{
		"field:",
		fmt.Sprintf("  count: %d", int(p.Count)),
		fmt.Sprintf("  fall_speed_min: %.2f", p.FallSpeedMin),
		fmt.Sprintf("  fall_speed_max: %.2f", p.FallSpeedMax),
		"physics:",
		fmt.Sprintf("  repulsion_radius: %.0f", p.RepulsionRadius),
		fmt.Sprintf("  force_divisor: %.1f", p.ForceDivisor),
		fmt.Sprintf("  damping: %.3f", p.Damping),
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
