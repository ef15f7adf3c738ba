package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"github.com/pthm-cable/squid/systems"
)

// Phase names for one frame.
const (
	PhaseInteraction = "interaction"
	PhaseSteering    = "steering"
	PhaseEmitters    = "emitters"
	PhaseDrift       = "drift"
	PhaseDeformation = "deformation"
	PhaseRender      = "render"
)

// phaseOrder is the order phases appear in logs and the HUD.
var phaseOrder = []string{
	PhaseInteraction, PhaseSteering, PhaseEmitters,
	PhaseDrift, PhaseDeformation, PhaseRender,
}

// maxPhases bounds the phase slots per sample. Names registered past it are not timed.
const maxPhases = 16

// Phases returns the phase names in display order.
func Phases() []string {
	return append([]string(nil), phaseOrder...)
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	Tick   time.Duration
	Phases [maxPhases]time.Duration // indexed by slot, see PerfCollector.slot
}

// PerfCollector tracks frame timing over a rolling window of ticks.
// Samples are fixed-size so recording a tick never allocates.
type PerfCollector struct {
	samples *systems.Ring[PerfSample]

	names []string // slot -> phase name
	slots map[string]int

	current    PerfSample
	open       bool
	tickStart  time.Time
	phaseStart time.Time
	phase      int // slot of the running phase, -1 when none

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks (60 if < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		samples: systems.NewRing(windowSize, PerfSample{}),
		slots:   make(map[string]int, maxPhases),
		phase:   -1,
	}
	for _, name := range phaseOrder {
		p.slot(name)
	}
	return p
}

// slot returns the index for a phase name, registering it on first use.
func (p *PerfCollector) slot(name string) int {
	if i, ok := p.slots[name]; ok {
		return i
	}
	if len(p.names) == maxPhases {
		return -1
	}
	p.names = append(p.names, name)
	p.slots[name] = len(p.names) - 1
	return len(p.names) - 1
}

// StartTick begins timing a new frame.
func (p *PerfCollector) StartTick() {
	p.current = PerfSample{}
	p.open = true
	p.tickStart = time.Now()
	p.phase = -1
}

// StartPhase closes the running phase and begins timing the named one.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = p.slot(name)
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.phase = -1
}

// EndTick finishes the frame and records its sample. Without a StartTick it does nothing.
func (p *PerfCollector) EndTick() {
	if !p.open {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.current.Tick = now.Sub(p.tickStart)
	p.samples.Push(p.current)
	p.open = false
}

// RecordFrame records the wall time between presented frames.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// count is the number of valid samples in the ring.
func (p *PerfCollector) count() int {
	return int(min(p.samples.Written(), uint64(p.samples.Cap())))
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	Samples int

	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Per phase average duration and share of the average tick
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Presented frames (windowed mode only)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}

	n := p.count()
	if n == 0 {
		return stats
	}
	stats.Samples = n

	ticks := make([]float64, n)
	var total time.Duration
	var phaseSum [maxPhases]time.Duration
	for i, s := range p.samples.Slots()[:n] {
		total += s.Tick
		ticks[i] = float64(s.Tick)
		for k := range p.names {
			phaseSum[k] += s.Phases[k]
		}
	}
	slices.Sort(ticks)

	stats.AvgTickDuration = total / time.Duration(n)
	stats.MinTickDuration = time.Duration(ticks[0])
	stats.MaxTickDuration = time.Duration(ticks[n-1])
	stats.P95TickDuration = time.Duration(Percentile(ticks, 0.95))

	for k, name := range p.names {
		if phaseSum[k] == 0 {
			continue
		}
		avg := phaseSum[k] / time.Duration(n)
		stats.PhaseAvg[name] = avg
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[name] = float64(avg) / float64(stats.AvgTickDuration) * 100
		}
	}

	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	return stats
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer. Phases below 0.1% are omitted.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range phaseOrder {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	InteractionPct float64 `csv:"interaction_pct"`
	SteeringPct    float64 `csv:"steering_pct"`
	EmittersPct    float64 `csv:"emitters_pct"`
	DriftPct       float64 `csv:"drift_pct"`
	DeformationPct float64 `csv:"deformation_pct"`
	RenderPct      float64 `csv:"render_pct"`
}

// ToCSV flattens the stats for perf.csv.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		P95TickUS:      s.P95TickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		InteractionPct: s.PhasePct[PhaseInteraction],
		SteeringPct:    s.PhasePct[PhaseSteering],
		EmittersPct:    s.PhasePct[PhaseEmitters],
		DriftPct:       s.PhasePct[PhaseDrift],
		DeformationPct: s.PhasePct[PhaseDeformation],
		RenderPct:      s.PhasePct[PhaseRender],
	}
}
