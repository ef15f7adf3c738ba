package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/squid/sim"
	"github.com/pthm-cable/squid/systems"
)

// handleInput processes keyboard and pointer input for this frame.
func (g *Game) handleInput() sim.Input {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	if rl.IsKeyPressed(rl.KeyM) {
		g.audio.SetMuted(!g.audio.Muted())
	}

	if rl.IsKeyPressed(rl.KeyH) {
		g.controls.Toggle()
	}

	if rl.IsKeyPressed(rl.KeyF) {
		g.sim.SetFollowing(!g.sim.Following())
	}

	// Overlay toggles
	if key := rl.GetKeyPressed(); key != 0 {
		g.overlays.HandleKeyPress(key)
	}

	mouse := rl.GetMousePosition()
	in := sim.Input{
		Pointer: systems.ScreenToNDC(mouse.X, mouse.Y, g.screenWidth, g.screenHeight),
	}
	if !rl.IsCursorOnScreen() {
		in.Pointer.Active = false
	}

	// Clicks on the controls panel belong to the panel
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !g.controls.Contains(mouse.X, mouse.Y) {
		in.Click = true
	}
	return in
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

	g.sim.Resize(w, h)
	g.background.Resize(int32(w), int32(h))
	g.controls.SetPosition(int32(w)-250, 10)
	g.perfPanel.SetPosition(10, int32(h)-160)
}
