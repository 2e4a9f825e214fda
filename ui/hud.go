package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dotfield/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Dots         int
	Tick         int32
	FPS          int32
	State        string
	PointerX     float64
	PointerY     float64
	PointerKnown bool
	Wraps        int
	Repelled     int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Dots: %d | Tick: %d | FPS: %d | %s", data.Dots, data.Tick, data.FPS, data.State),
		10, 35, 16, rl.LightGray,
	)

	pointer := "Pointer: none"
	if data.PointerKnown {
		pointer = fmt.Sprintf("Pointer: %.0f, %.0f", data.PointerX, data.PointerY)
	}
	rl.DrawText(
		fmt.Sprintf("%s | Wraps: %d | Repelled: %d", pointer, data.Wraps, data.Repelled),
		10, 55, 16, rl.LightGray,
	)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PhysicsValues are the live-tunable motion parameters.
type PhysicsValues struct {
	RepulsionRadius float64
	ForceDivisor    float64
	Damping         float64
}

// PhysicsPanel renders raygui sliders for the motion parameters.
type PhysicsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPhysicsPanel creates a slider panel at the given position.
func NewPhysicsPanel(x, y, width int32) *PhysicsPanel {
	return &PhysicsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PhysicsPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the sliders and reports whether any value changed.
func (p *PhysicsPanel) Draw(v *PhysicsValues) bool {
	r := p.renderer
	pad := r.Theme.Padding
	inner := p.width - pad*2

	r.DrawPanel(p.x, p.y, p.width, 150)
	x := p.x + pad
	y := r.DrawSectionHeader(x, p.y+pad, "Physics")

	before := *v
	v.RepulsionRadius, y = r.Slider(x, y, inner-40, "Pointer radius", "%.0f", v.RepulsionRadius, 10, 300)
	v.ForceDivisor, y = r.Slider(x, y, inner-40, "Force divisor", "%.1f", v.ForceDivisor, 1, 100)
	v.Damping, _ = r.Slider(x, y, inner-40, "Damping", "%.3f", v.Damping, 0.5, 1)

	return *v != before
}

// PerfPanel renders the frame phase performance panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// Draw renders the frame phase timings, one line per phase in frame order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	x := p.x
	y := p.y

	rl.DrawText("Frame Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Frame: %s  max %s", stats.AvgFrame.Round(time.Microsecond), stats.MaxFrame.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, ph := range stats.Phases {
		color := r.Theme.LabelColor
		if ph.Pct > 50 {
			color = r.Theme.HotColor
		} else if ph.Pct > 25 {
			color = r.Theme.WarnColor
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", ph.Name, ph.Avg.Round(time.Microsecond), ph.Pct),
			x, y, 12, color,
		)
		y += 14
	}
}
