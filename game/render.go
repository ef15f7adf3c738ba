package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/squid/telemetry"
	"github.com/pthm-cable/squid/ui"
)

const controlsHelp = "Move: steer | Click: pulse | Double-click/F: follow | M: mute | SPACE: pause | H: panel | T B S A: layers | G R P: debug"

// Draw renders the frame and closes the perf sample.
func (g *Game) Draw() {
	if g.tickOpen {
		g.perfCollector.StartPhase(telemetry.PhaseRender)
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	frame := g.sim.Frame()
	g.background.Draw(frame.Time, frame.Glow, frame.ClickPulse, frame.ClickColor)

	// Point layers filtered by overlay toggles
	g.visible = g.visible[:0]
	for _, l := range g.sim.Layers() {
		if g.overlays.LayerVisible(l.Kind) {
			g.visible = append(g.visible, l)
		}
	}
	g.points.Draw(g.visible, frame)

	g.drawDebugOverlays()
	g.drawUI()

	rl.EndDrawing()

	g.endPerfSample()
	g.perfCollector.RecordFrame()
}

// drawUI draws the HUD, controls and optional perf panel.
func (g *Game) drawUI() {
	frame := g.sim.Frame()
	s := g.sim

	g.hud.Draw(ui.HUDData{
		Title:       "Squid",
		FPS:         rl.GetFPS(),
		Time:        frame.Time,
		Mode:        frame.Mode.String(),
		Following:   frame.Following,
		Muted:       g.audio.Muted(),
		Speed:       frame.Speed,
		Hover:       frame.Hover,
		Turn:        frame.Turn,
		Agitation:   frame.Agitation,
		Glow:        frame.Glow,
		ClickPulse:  frame.ClickPulse,
		TrailLive:   s.Trail().Live(frame.Time),
		BubblesLive: s.Bubbles().Live(frame.Time),
	})

	before := ui.ControlsState{Following: s.Following(), Muted: g.audio.Muted()}
	after := g.controls.Draw(before, g.overlays)
	if after.Following != before.Following {
		s.SetFollowing(after.Following)
	}
	if after.Muted != before.Muted {
		g.audio.SetMuted(after.Muted)
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	if g.paused {
		rl.DrawText("PAUSED", int32(g.screenWidth)/2-40, 20, 20, rl.Yellow)
	}

	g.hud.DrawControls(int32(g.screenHeight), controlsHelp)
}
