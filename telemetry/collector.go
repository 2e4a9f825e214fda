package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/dotfield/systems"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	wraps         int
	repelled      int
	pointerFrames int
	resizes       int

	drift []float64
	ys    []float64
}

// NewCollector creates a new stats collector.
// windowTicks: frames per window
// dt: seconds per frame (used for tick-to-time conversion)
func NewCollector(windowTicks int32, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: windowTicks,
		dt:                  dt,
	}
}

// RecordStep records the outcome of one field step.
func (c *Collector) RecordStep(s systems.StepStats, pointerKnown bool) {
	c.wraps += s.Wraps
	c.repelled += s.Repelled
	if pointerKnown {
		c.pointerFrames++
	}
}

// RecordResize records a surface resize.
func (c *Collector) RecordResize() {
	c.resizes++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the counters and the current dots,
// then resets counters for the next window.
func (c *Collector) Flush(currentTick int32, particles []systems.Particle) WindowStats {
	c.drift = c.drift[:0]
	c.ys = c.ys[:0]
	for i := range particles {
		p := &particles[i]
		c.drift = append(c.drift, systems.Speed(p.VX, p.VY))
		c.ys = append(c.ys, p.Y)
	}

	mean, std, p50, p90, max := ComputeDriftStats(c.drift)
	var meanY float64
	if len(c.ys) > 0 {
		meanY = stat.Mean(c.ys, nil)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Dots:  len(particles),
		MeanY: meanY,

		Wraps:         c.wraps,
		Repelled:      c.repelled,
		PointerFrames: c.pointerFrames,
		Resizes:       c.resizes,

		DriftMean: mean,
		DriftStd:  std,
		DriftP50:  p50,
		DriftP90:  p90,
		DriftMax:  max,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.wraps = 0
	c.repelled = 0
	c.pointerFrames = 0
	c.resizes = 0

	return stats
}
