package systems

import "math"

// Repel returns the velocity impulse a dot at offset (dx, dy) from the
// pointer receives. The impulse points away from the pointer with magnitude
// (radius - dist) / divisor. ok is false when the dot is at or beyond
// radius, or exactly on the pointer, where the direction is undefined.
func Repel(dx, dy, radius, divisor float64) (ix, iy float64, ok bool) {
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist >= radius || dist == 0 {
		return 0, 0, false
	}
	force := (radius - dist) / divisor
	return force * dx / dist, force * dy / dist, true
}

// Speed returns the magnitude of a velocity.
func Speed(vx, vy float64) float64 {
	return math.Hypot(vx, vy)
}
