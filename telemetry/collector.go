package telemetry

// Steering modes as recorded in samples. Mirrors the simulation's mode order.
const (
	ModeWandering uint8 = iota
	ModeFollowing
	ModeHovering
	ModeBurst
	numModes
)

// FrameSample is what the collector needs from one tick.
type FrameSample struct {
	Speed, Hover, Turn, Agitation float32
	Mode                          uint8

	TrailEmitted   int
	BubblesEmitted int
	BurstStarted   bool
	Clicked        bool
	Hit            bool
	DoubleClick    bool
}

// Collector accumulates samples within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Sampled series for current window
	speeds     []float64
	hovers     []float64
	turns      []float64
	agitations []float64
	modeTicks  [numModes]int

	// Event counters for current window
	bursts         int
	clicks         int
	hits           int
	doubleClicks   int
	trailEmitted   int
	bubblesEmitted int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		speeds:              make([]float64, 0, ticksPerWindow),
		hovers:              make([]float64, 0, ticksPerWindow),
		turns:               make([]float64, 0, ticksPerWindow),
		agitations:          make([]float64, 0, ticksPerWindow),
	}
}

// Record adds one tick's sample to the current window.
func (c *Collector) Record(s FrameSample) {
	c.speeds = append(c.speeds, float64(s.Speed))
	c.hovers = append(c.hovers, float64(s.Hover))
	c.turns = append(c.turns, float64(s.Turn))
	c.agitations = append(c.agitations, float64(s.Agitation))
	if s.Mode < numModes {
		c.modeTicks[s.Mode]++
	}

	c.trailEmitted += s.TrailEmitted
	c.bubblesEmitted += s.BubblesEmitted
	if s.BurstStarted {
		c.bursts++
	}
	if s.Clicked {
		c.clicks++
	}
	if s.Hit {
		c.hits++
	}
	if s.DoubleClick {
		c.doubleClicks++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32) WindowStats {
	speed := ComputeSeriesStats(c.speeds)
	hover := ComputeSeriesStats(c.hovers)
	turn := ComputeSeriesStats(c.turns)
	agitation := ComputeSeriesStats(c.agitations)

	var hitRate float64
	if c.clicks > 0 {
		hitRate = float64(c.hits) / float64(c.clicks)
	}

	samples := len(c.speeds)
	pct := func(mode uint8) float64 {
		if samples == 0 {
			return 0
		}
		return float64(c.modeTicks[mode]) / float64(samples) * 100
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		SpeedMean: speed.Mean,
		SpeedStd:  speed.Std,
		SpeedMax:  speed.Max,
		HoverMean: hover.Mean,
		HoverP90:  hover.P90,
		TurnMean:  turn.Mean,
		TurnMax:   turn.Max,

		AgitationMean: agitation.Mean,
		AgitationP90:  agitation.P90,
		AgitationMax:  agitation.Max,

		Bursts:       c.bursts,
		Clicks:       c.clicks,
		Hits:         c.hits,
		DoubleClicks: c.doubleClicks,
		HitRate:      hitRate,

		TrailEmitted:   c.trailEmitted,
		BubblesEmitted: c.bubblesEmitted,

		WanderingPct: pct(ModeWandering),
		FollowingPct: pct(ModeFollowing),
		HoveringPct:  pct(ModeHovering),
		BurstPct:     pct(ModeBurst),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.speeds = c.speeds[:0]
	c.hovers = c.hovers[:0]
	c.turns = c.turns[:0]
	c.agitations = c.agitations[:0]
	c.modeTicks = [numModes]int{}
	c.bursts = 0
	c.clicks = 0
	c.hits = 0
	c.doubleClicks = 0
	c.trailEmitted = 0
	c.bubblesEmitted = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
