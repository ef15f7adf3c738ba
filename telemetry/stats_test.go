package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSeriesStats(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	s := ComputeSeriesStats(values)

	if math.Abs(s.Mean-0.55) > 0.001 {
		t.Errorf("expected mean 0.55, got %v", s.Mean)
	}
	// Sample standard deviation of 0.1..1.0
	if math.Abs(s.Std-0.30277) > 0.001 {
		t.Errorf("expected std ~0.3028, got %v", s.Std)
	}
	if math.Abs(s.P50-0.55) > 0.01 {
		t.Errorf("expected p50 ~0.55, got %v", s.P50)
	}
	if math.Abs(s.P90-0.91) > 0.01 {
		t.Errorf("expected p90 ~0.91, got %v", s.P90)
	}
	if s.Max != 1.0 {
		t.Errorf("expected max 1.0, got %v", s.Max)
	}
}

func TestComputeSeriesStatsDoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeSeriesStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("expected input untouched, got %v", values)
	}
}

func TestComputeSeriesStatsEmpty(t *testing.T) {
	s := ComputeSeriesStats(nil)
	if s != (SeriesStats{}) {
		t.Errorf("expected zero stats for empty input, got %+v", s)
	}
}

func TestComputeSeriesStatsSingle(t *testing.T) {
	s := ComputeSeriesStats([]float64{2.5})
	if s.Mean != 2.5 || s.Std != 0 || s.Max != 2.5 {
		t.Errorf("expected mean 2.5, std 0, max 2.5, got %+v", s)
	}
}
