package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyF1) {
		g.showHUD = !g.showHUD
	}

	g.handleMouse()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.physicsPanel.SetPosition(int32(w)-230, 10)
	g.loop.Resize(float64(w), float64(h))
}

// handleMouse forwards pointer moves and the cursor leaving the window.
func (g *Game) handleMouse() {
	pos := rl.GetMousePosition()
	g.mouse.update(g.loop, float64(pos.X), float64(pos.Y), rl.IsCursorOnScreen())
}

// pointerTracker turns polled cursor positions into move and leave events.
// Polling backends report (0, 0) before the mouse has ever moved, so that
// position is ignored until the cursor is seen somewhere else.
type pointerTracker struct {
	x, y float64
	seen bool
}

func (t *pointerTracker) update(loop *FrameLoop, x, y float64, inside bool) {
	if !inside {
		if t.seen {
			loop.PointerLeave()
		}
		t.seen = false
		return
	}
	if t.seen && x == t.x && y == t.y {
		return
	}
	if !t.seen && x == 0 && y == 0 {
		return
	}
	t.x, t.y, t.seen = x, y, true
	loop.PointerMove(x, y)
}
