package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/squid/config"
)

func headlessGame(t *testing.T, outputDir string) *Game {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	g := NewGameWithOptions(cfg, Options{
		Seed:           7,
		Workers:        2,
		StatsWindowSec: 1,
		OutputDir:      outputDir,
		Headless:       true,
	})
	return g
}

func TestHeadlessRunWritesOutput(t *testing.T) {
	dir := t.TempDir()
	g := headlessGame(t, dir)

	for i := 0; i < 150; i++ {
		g.UpdateHeadless()
	}
	if g.Tick() != 150 {
		t.Errorf("expected 150 ticks, got %d", g.Tick())
	}
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatalf("reading frames.csv: %v", err)
	}
	// 150 ticks at 60 Hz with 1s windows: two flushes
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("expected header plus 2 windows, got %d lines", len(lines))
	}

	for _, name := range []string{"perf.csv", "bookmarks.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestHeadlessPerfSamples(t *testing.T) {
	g := headlessGame(t, "")
	defer g.Unload()

	for i := 0; i < 30; i++ {
		g.UpdateHeadless()
	}
	if g.tickOpen {
		t.Error("expected perf sample closed after a headless step")
	}
	stats := g.perfCollector.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Errorf("expected positive tick duration, got %v", stats.AvgTickDuration)
	}
	if _, ok := stats.PhaseAvg["deformation"]; !ok {
		t.Errorf("expected deformation phase timing, got %v", stats.PhaseAvg)
	}
}

func TestPausedSkipsTicks(t *testing.T) {
	g := headlessGame(t, "")
	defer g.Unload()

	g.paused = true
	for i := 0; i < 10; i++ {
		g.UpdateHeadless()
	}
	if g.Tick() != 0 {
		t.Errorf("expected no ticks while paused, got %d", g.Tick())
	}
	if g.Simulation().Time() != 0 {
		t.Errorf("expected simulation time to stand still, got %f", g.Simulation().Time())
	}
}

func TestHeadlessMuteFlag(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	g := NewGameWithOptions(cfg, Options{Seed: 1, Headless: true, Muted: true})
	defer g.Unload()

	if !g.audio.Muted() {
		t.Error("expected audio muted from options")
	}
}
