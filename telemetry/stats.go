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

	// Field state at window end
	Dots  int     `csv:"dots"`
	MeanY float64 `csv:"mean_y"`

	// Events during window
	Wraps         int `csv:"wraps"`
	Repelled      int `csv:"repelled"`       // dot-frames that received a pointer impulse
	PointerFrames int `csv:"pointer_frames"` // frames with a known pointer
	Resizes       int `csv:"resizes"`

	// Drift (pointer-induced velocity) distribution at window end
	DriftMean float64 `csv:"drift_mean"`
	DriftStd  float64 `csv:"drift_std"`
	DriftP50  float64 `csv:"drift_p50"`
	DriftP90  float64 `csv:"drift_p90"`
	DriftMax  float64 `csv:"drift_max"`
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

// ComputeDriftStats calculates mean, population std, percentiles and max.
func ComputeDriftStats(values []float64) (mean, std, p50, p90, max float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	max = floats.Max(sorted)

	return mean, std, p50, p90, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("dots", s.Dots),
		slog.Float64("mean_y", s.MeanY),
		slog.Int("wraps", s.Wraps),
		slog.Int("repelled", s.Repelled),
		slog.Int("pointer_frames", s.PointerFrames),
		slog.Int("resizes", s.Resizes),
		slog.Float64("drift_mean", s.DriftMean),
		slog.Float64("drift_std", s.DriftStd),
		slog.Float64("drift_p50", s.DriftP50),
		slog.Float64("drift_p90", s.DriftP90),
		slog.Float64("drift_max", s.DriftMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
