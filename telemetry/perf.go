package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/dotfield/systems"
)

// PhaseTiming is one frame phase summarized over the rolling window.
type PhaseTiming struct {
	ID   string
	Name string
	Avg  time.Duration
	Max  time.Duration
	Pct  float64 // share of the average frame, 0-100
}

// PerfStats summarizes the frames in the rolling window.
type PerfStats struct {
	Frames   int
	AvgFrame time.Duration
	MaxFrame time.Duration
	FPS      float64 // from the spacing of frame starts

	// Registry order
	Phases []PhaseTiming
}

// Phase returns the timing of a phase by ID.
func (s PerfStats) Phase(id string) (PhaseTiming, bool) {
	for _, ph := range s.Phases {
		if ph.ID == id {
			return ph, true
		}
	}
	return PhaseTiming{}, false
}

type frameSample struct {
	work     time.Duration
	interval time.Duration
	phases   []time.Duration
}

// PerfCollector times the phases of each animator frame over a rolling
// window. The phase set is fixed by the registry it is built from; the
// animator reports phases by registry ID.
type PerfCollector struct {
	phases []systems.SystemInfo
	index  map[string]int

	ring  []frameSample
	next  int
	count int

	now        func() time.Time
	frameStart time.Time
	interval   time.Duration
	phaseStart time.Time
	phase      int
	cur        []time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int, reg *systems.SystemRegistry) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	phases := reg.All()
	p := &PerfCollector{
		phases: phases,
		index:  make(map[string]int, len(phases)),
		ring:   make([]frameSample, windowSize),
		now:    time.Now,
		phase:  -1,
		cur:    make([]time.Duration, len(phases)),
	}
	for i, info := range phases {
		p.index[info.ID] = i
	}
	for i := range p.ring {
		p.ring[i].phases = make([]time.Duration, len(phases))
	}
	return p
}

// BeginFrame starts timing a frame. Hosts run one animator frame per
// display refresh, so the gap since the previous BeginFrame is the
// refresh interval.
func (p *PerfCollector) BeginFrame() {
	now := p.now()
	p.interval = 0
	if !p.frameStart.IsZero() {
		p.interval = now.Sub(p.frameStart)
	}
	p.frameStart = now
	p.phase = -1
	clear(p.cur)
}

// Phase ends the running phase and starts timing id.
// An id missing from the registry just ends the running phase.
func (p *PerfCollector) Phase(id string) {
	now := p.now()
	p.closePhase(now)
	if i, ok := p.index[id]; ok {
		p.phase = i
		p.phaseStart = now
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur[p.phase] += now.Sub(p.phaseStart)
		p.phase = -1
	}
}

// EndFrame closes the running phase and stores the frame in the window.
func (p *PerfCollector) EndFrame() {
	now := p.now()
	p.closePhase(now)

	s := &p.ring[p.next]
	s.work = now.Sub(p.frameStart)
	s.interval = p.interval
	copy(s.phases, p.cur)

	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// Stats summarizes the frames currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		Frames: p.count,
		Phases: make([]PhaseTiming, len(p.phases)),
	}
	for i, info := range p.phases {
		stats.Phases[i] = PhaseTiming{ID: info.ID, Name: info.Name}
	}
	if p.count == 0 {
		return stats
	}

	var work, interval time.Duration
	intervals := 0
	for _, s := range p.ring[:p.count] {
		work += s.work
		if s.work > stats.MaxFrame {
			stats.MaxFrame = s.work
		}
		if s.interval > 0 {
			interval += s.interval
			intervals++
		}
		for j, d := range s.phases {
			ph := &stats.Phases[j]
			ph.Avg += d
			if d > ph.Max {
				ph.Max = d
			}
		}
	}

	n := time.Duration(p.count)
	stats.AvgFrame = work / n
	for j := range stats.Phases {
		ph := &stats.Phases[j]
		ph.Avg /= n
		if stats.AvgFrame > 0 {
			ph.Pct = float64(ph.Avg) / float64(stats.AvgFrame) * 100
		}
	}
	if intervals > 0 {
		stats.FPS = float64(time.Second) * float64(intervals) / float64(interval)
	}
	return stats
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
		slog.Float64("fps", s.FPS),
	}
	for _, ph := range s.Phases {
		attrs = append(attrs, slog.Float64(ph.ID+"_pct", ph.Pct))
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the perf summary using slog.
func (s PerfStats) LogStats() {
	slog.Info("perf", "frame", s)
}

// PerfRow is one line of perf.csv. Each window writes a "frame" row for
// whole-frame timing followed by one row per phase.
type PerfRow struct {
	WindowEnd int32   `csv:"window_end"`
	Phase     string  `csv:"phase"`
	AvgUS     int64   `csv:"avg_us"`
	MaxUS     int64   `csv:"max_us"`
	Pct       float64 `csv:"pct"`
	FPS       float64 `csv:"fps"`
}

// Rows flattens the stats into perf.csv rows.
func (s PerfStats) Rows(windowEnd int32) []PerfRow {
	rows := make([]PerfRow, 0, len(s.Phases)+1)
	rows = append(rows, PerfRow{
		WindowEnd: windowEnd,
		Phase:     "frame",
		AvgUS:     s.AvgFrame.Microseconds(),
		MaxUS:     s.MaxFrame.Microseconds(),
		Pct:       100,
		FPS:       s.FPS,
	})
	for _, ph := range s.Phases {
		rows = append(rows, PerfRow{
			WindowEnd: windowEnd,
			Phase:     ph.ID,
			AvgUS:     ph.Avg.Microseconds(),
			MaxUS:     ph.Max.Microseconds(),
			Pct:       ph.Pct,
		})
	}
	return rows
}
