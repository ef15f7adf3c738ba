// Package game hosts the simulation: the raylib window loop, input, drawing,
// audio and telemetry. Headless runs share the same type without a window.
package game

import (
	"log/slog"

	"github.com/pthm-cable/squid/audio"
	"github.com/pthm-cable/squid/config"
	"github.com/pthm-cable/squid/renderer"
	"github.com/pthm-cable/squid/sim"
	"github.com/pthm-cable/squid/telemetry"
	"github.com/pthm-cable/squid/ui"
)

// maxFrameDT caps the step after a stall (window drag, debugger) so motion stays smooth.
const maxFrameDT = 0.1

// Background base color (deep water).
const (
	bgR, bgG, bgB = 10, 40, 70
)

// Options configures a Game.
type Options struct {
	Seed           int64   // 0 = time-based
	Workers        int     // deformation workers, 0 = GOMAXPROCS
	LogStats       bool    // log window stats via slog
	StatsWindowSec float64 // stats window in seconds
	OutputDir      string  // CSV and config output, empty = disabled
	Headless       bool    // no window, scripted pointer
	Muted          bool    // start with audio muted
}

// Game holds the complete application state around one Simulation.
type Game struct {
	cfg *config.Config
	sim *sim.Simulation

	audio  audio.Player
	script *sim.ScriptedPointer // headless pointer source

	// Rendering (nil in headless mode)
	background *renderer.BackgroundRenderer
	points     *renderer.PointRenderer
	hud        *ui.HUD
	controls   *ui.ControlsPanel
	perfPanel  *ui.PerfPanel
	overlays   *ui.OverlayRegistry
	visible    []sim.LayerView

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	logStats         bool

	// State
	dt        float32 // fixed step for headless runs and telemetry windows
	tick      int32
	paused    bool
	headless  bool
	tickOpen  bool // a perf sample is in progress
	lastInput sim.Input

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game. In windowed mode the raylib window must
// already be open.
func NewGameWithOptions(cfg *config.Config, opts Options) *Game {
	dt := float32(1.0 / 60.0)
	if cfg.Screen.TargetFPS > 0 {
		dt = 1 / float32(cfg.Screen.TargetFPS)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:              cfg,
		sim:              sim.New(cfg, sim.Options{Seed: opts.Seed, Workers: opts.Workers}),
		collector:        telemetry.NewCollector(statsWindow, dt),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		dt:               dt,
		headless:         opts.Headless,
		screenWidth:      cfg.Derived.ScreenW32,
		screenHeight:     cfg.Derived.ScreenH32,
	}
	g.sim.SetPerf(g.perfCollector)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	} else if om != nil {
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
		slog.Info("writing output", "dir", om.Dir())
	}

	if opts.Headless {
		g.script = sim.NewScriptedPointer()
		g.audio = &audio.Silent{}
	} else {
		g.audio = audio.New(cfg.Audio, cfg.Screen.TargetFPS)
		g.initRendering()
	}
	g.audio.SetMuted(opts.Muted)

	return g
}

func (g *Game) initRendering() {
	w, h := int32(g.screenWidth), int32(g.screenHeight)
	g.background = renderer.NewBackgroundRenderer(w, h, bgR, bgG, bgB)
	g.points = renderer.NewPointRenderer(g.sim.Camera(), g.sim.AmbientDrift())
	g.overlays = ui.NewOverlayRegistry()
	g.hud = ui.NewHUD(10, 10, 300)
	g.controls = ui.NewControlsPanel(w-250, 10, 240)
	g.perfPanel = ui.NewPerfPanel(10, h-160)
}

// Update reads window input and advances one frame.
func (g *Game) Update(dt float32) {
	in := g.handleInput()
	if dt > maxFrameDT {
		dt = maxFrameDT
	}
	g.step(dt, in)
}

// UpdateHeadless advances one fixed step driven by the scripted pointer.
func (g *Game) UpdateHeadless() {
	in := g.script.At(g.sim.Time() + g.dt)
	g.step(g.dt, in)
	g.endPerfSample()
}

func (g *Game) step(dt float32, in sim.Input) {
	g.lastInput = in
	if g.paused {
		return
	}

	g.perfCollector.StartTick()
	g.tickOpen = true

	frame := g.sim.Tick(dt, in)
	g.audio.Update(frame.Agitation + frame.ClickPulse)

	g.collector.Record(g.sim.Report().Sample())
	g.tick++
	g.flushTelemetry()
}

// endPerfSample closes the perf sample opened by step, if any.
func (g *Game) endPerfSample() {
	if g.tickOpen {
		g.perfCollector.EndTick()
		g.tickOpen = false
	}
}

// Tick returns the number of simulation steps taken.
func (g *Game) Tick() int32 {
	return g.tick
}

// Simulation returns the hosted simulation.
func (g *Game) Simulation() *sim.Simulation {
	return g.sim
}

// Unload releases the simulation, audio, GPU resources and output files.
func (g *Game) Unload() {
	g.sim.Close()
	g.audio.Close()
	if g.background != nil {
		g.background.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	slog.Info("game unloaded", "ticks", g.tick)
}
