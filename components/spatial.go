// Package components defines ECS components for the dot field.
package components

// Position represents a dot's position in surface coordinates.
type Position struct {
	X, Y float64
}

// Velocity represents the pointer-induced velocity of a dot.
// The constant fall speed is kept separately in Dot.
type Velocity struct {
	X, Y float64
}

// Rotation represents a dot's drawing angle and its per-frame change.
type Rotation struct {
	Angle  float64 // radians
	AngVel float64 // radians per frame, fixed at creation
}
