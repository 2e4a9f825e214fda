package components

// Dot holds the fixed shape and fall properties of a particle.
// Neither field changes after the dot is created.
type Dot struct {
	Radius    float64
	FallSpeed float64 // base downward speed per frame
}
