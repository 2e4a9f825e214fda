package systems

// Frame phase IDs, in execution order. Perf tracking and the HUD use these.
const (
	PhaseResize    = "resize"
	PhaseClear     = "clear"
	PhaseDraw      = "draw"
	PhaseStep      = "step"
	PhaseTelemetry = "telemetry"
)

// SystemInfo describes one frame phase for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
}

// SystemRegistry holds metadata about all frame phases.
// Perf tracking, perf.csv and the HUD all take their phase list from here.
type SystemRegistry struct {
	systems []SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{}
	reg.Register(SystemInfo{ID: PhaseResize, Name: "Resize", Description: "Applies pending surface size changes"})
	reg.Register(SystemInfo{ID: PhaseClear, Name: "Clear", Description: "Clears the drawing surface"})
	reg.Register(SystemInfo{ID: PhaseDraw, Name: "Draw", Description: "Draws every dot"})
	reg.Register(SystemInfo{ID: PhaseStep, Name: "Step", Description: "Fall, wrap, repulsion and damping"})
	reg.Register(SystemInfo{ID: PhaseTelemetry, Name: "Telemetry", Description: "Records window statistics"})
	return reg
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
}

// All returns all registered phases in registration order.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}
