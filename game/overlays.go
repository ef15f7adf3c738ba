package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/squid/ui"
)

// drawDebugOverlays draws the enabled debug markers.
func (g *Game) drawDebugOverlays() {
	if g.overlays.IsEnabled(ui.OverlayWanderTarget) {
		g.drawSteeringTarget()
	}
	if g.overlays.IsEnabled(ui.OverlayPointerTarget) {
		g.drawPointerTarget()
	}
}

// drawSteeringTarget marks the point the creature is heading for and links it to the creature.
func (g *Game) drawSteeringTarget() {
	cam := g.sim.Camera()
	st := g.sim.Steering()

	tx, ty, ok := cam.WorldToScreen(st.Target)
	if !ok {
		return
	}
	color := rl.Color{R: 255, G: 200, B: 80, A: 200}
	rl.DrawCircleLines(int32(tx), int32(ty), 8, color)

	if cx, cy, ok := cam.WorldToScreen(st.Position); ok {
		rl.DrawLine(int32(cx), int32(cy), int32(tx), int32(ty), rl.Fade(color, 0.4))
	}
	rl.DrawText(st.Mode.String(), int32(tx)+10, int32(ty)-6, 12, color)
}

// drawPointerTarget shows where the pointer ray meets the creature's depth plane.
func (g *Game) drawPointerTarget() {
	ptr := g.lastInput.Pointer
	if !ptr.Active {
		return
	}
	cam := g.sim.Camera()
	world := cam.PointerTarget(ptr.NDCX, ptr.NDCY, g.sim.Steering().Position)

	x, y, ok := cam.WorldToScreen(world)
	if !ok {
		return
	}
	color := rl.Color{R: 120, G: 220, B: 255, A: 200}
	rl.DrawCircleLines(int32(x), int32(y), 5, color)
	rl.DrawLine(int32(x)-10, int32(y), int32(x)+10, int32(y), color)
	rl.DrawLine(int32(x), int32(y)-10, int32(x), int32(y)+10, color)
}
