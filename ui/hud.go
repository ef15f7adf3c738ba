package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/squid/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title string
	FPS   int32
	Time  float32

	Mode      string
	Following bool
	Muted     bool

	Speed, Hover, Turn, Agitation, Glow, ClickPulse float32

	TrailLive   int
	BubblesLive int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the HUD and returns the Y position below it.
func (h *HUD) Draw(data HUDData) int32 {
	r := h.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := h.width - padding*2

	panelHeight := lineHeight*11 + padding*2
	r.DrawPanel(h.x, h.y, h.width, panelHeight)

	x := h.x + padding
	y := h.y + padding

	rl.DrawText(data.Title, x, y, 18, rl.White)
	y += lineHeight + 6

	y = r.DrawLabelValue(x, y, "Time", fmt.Sprintf("%.1fs | %d fps", data.Time, data.FPS))
	y = r.DrawLabelValue(x, y, "Mode", modeLabel(data.Mode, data.Following))
	y = r.DrawLabelValue(x, y, "Particles", fmt.Sprintf("ink %d | bubbles %d", data.TrailLive, data.BubblesLive))

	y = r.DrawSectionHeader(x, y+2, "Motion")
	y = r.DrawBar(x, y, "Speed", data.Speed, 2.5, inner)
	y = r.DrawBar(x, y, "Hover", data.Hover, 1, inner)
	y = r.DrawBar(x, y, "Turn", data.Turn, 0.5, inner)
	y = r.DrawBar(x, y, "Agitation", data.Agitation, 3, inner)
	y = r.DrawBar(x, y, "Glow", data.Glow, 2, inner)

	if data.ClickPulse > 0 {
		y = r.DrawBar(x, y, "Pulse", data.ClickPulse, 1, inner)
	}
	if data.Muted {
		rl.DrawText("MUTED", x, y, r.Theme.FontSize, rl.Yellow)
	}

	return h.y + panelHeight
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// modeLabel describes the steering mode, noting when follow is off.
func modeLabel(mode string, following bool) string {
	if following {
		return mode
	}
	return mode + " (follow off)"
}

// PerfPanel renders the per-phase tick timings.
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

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s | %.0f ticks/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range telemetry.Phases() {
		avg, ok := stats.PhaseAvg[name]
		if !ok {
			continue
		}
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
