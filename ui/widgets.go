package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// Slider draws a labeled raygui slider bar and returns the new value and Y position.
func (r *Renderer) Slider(x, y, width int32, label, format string, value, min, max float64) (float64, int32) {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight

	barWidth := width - r.Theme.LabelWidth/2
	next := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(barWidth), Height: float32(r.Theme.SliderHeight)},
		"", "",
		float32(value), float32(min), float32(max),
	)
	rl.DrawText(fmt.Sprintf(format, value), x+barWidth+6, y+2, r.Theme.FontSize, r.Theme.ValueColor)

	// Keep full precision unless the user dragged the bar
	if next != float32(value) {
		value = float64(next)
	}
	return value, y + r.Theme.SliderHeight + 8
}
