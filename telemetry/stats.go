package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Locomotion
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedMax  float64 `csv:"speed_max"`
	HoverMean float64 `csv:"hover_mean"`
	HoverP90  float64 `csv:"hover_p90"`
	TurnMean  float64 `csv:"turn_mean"`
	TurnMax   float64 `csv:"turn_max"`

	// Excitement driving deformation and glow
	AgitationMean float64 `csv:"agitation_mean"`
	AgitationP90  float64 `csv:"agitation_p90"`
	AgitationMax  float64 `csv:"agitation_max"`

	// Events during window
	Bursts       int     `csv:"bursts"`
	Clicks       int     `csv:"clicks"`
	Hits         int     `csv:"hits"`
	DoubleClicks int     `csv:"double_clicks"`
	HitRate      float64 `csv:"hit_rate"`

	// Streaming particles
	TrailEmitted   int `csv:"trail_emitted"`
	BubblesEmitted int `csv:"bubbles_emitted"`

	// Share of the window spent in each steering mode
	WanderingPct float64 `csv:"wandering_pct"`
	FollowingPct float64 `csv:"following_pct"`
	HoveringPct  float64 `csv:"hovering_pct"`
	BurstPct     float64 `csv:"burst_pct"`
}

// SeriesStats summarizes one sampled value over a window.
type SeriesStats struct {
	Mean, Std, P50, P90, Max float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSeriesStats calculates mean, std, percentiles and max of values.
// Values are not modified.
func ComputeSeriesStats(values []float64) SeriesStats {
	n := len(values)
	if n == 0 {
		return SeriesStats{}
	}

	var s SeriesStats
	if n == 1 {
		s.Mean = values[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(values, nil)
	}
	s.Max = floats.Max(values)

	// Sort a copy for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s.P50 = Percentile(sorted, 0.50)
	s.P90 = Percentile(sorted, 0.90)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("hover_mean", s.HoverMean),
		slog.Float64("turn_mean", s.TurnMean),
		slog.Float64("agitation_mean", s.AgitationMean),
		slog.Float64("agitation_max", s.AgitationMax),
		slog.Int("bursts", s.Bursts),
		slog.Int("clicks", s.Clicks),
		slog.Int("hits", s.Hits),
		slog.Int("double_clicks", s.DoubleClicks),
		slog.Int("trail_emitted", s.TrailEmitted),
		slog.Int("bubbles_emitted", s.BubblesEmitted),
		slog.Float64("following_pct", s.FollowingPct),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_max", s.SpeedMax,
		"hover_mean", s.HoverMean,
		"hover_p90", s.HoverP90,
		"turn_mean", s.TurnMean,
		"turn_max", s.TurnMax,
		"agitation_mean", s.AgitationMean,
		"agitation_p90", s.AgitationP90,
		"agitation_max", s.AgitationMax,
		"bursts", s.Bursts,
		"clicks", s.Clicks,
		"hits", s.Hits,
		"double_clicks", s.DoubleClicks,
		"hit_rate", s.HitRate,
		"trail_emitted", s.TrailEmitted,
		"bubbles_emitted", s.BubblesEmitted,
		"wandering_pct", s.WanderingPct,
		"following_pct", s.FollowingPct,
		"hovering_pct", s.HoveringPct,
		"burst_pct", s.BurstPct,
	)
}
