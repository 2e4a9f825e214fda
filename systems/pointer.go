package systems

import "sync"

// PointerSample is a read-only copy of the pointer state.
type PointerSample struct {
	X, Y  float64
	Known bool // false until the first move is observed
}

// Pointer holds the last known pointer position.
// Input handlers write it and the frame step reads it; the two may run on
// different goroutines depending on the backend.
type Pointer struct {
	mu    sync.Mutex
	x, y  float64
	known bool
}

// Move records a new pointer position.
func (p *Pointer) Move(x, y float64) {
	p.mu.Lock()
	p.x, p.y = x, y
	p.known = true
	p.mu.Unlock()
}

// Forget returns the pointer to the unknown state, e.g. when it leaves the window.
func (p *Pointer) Forget() {
	p.mu.Lock()
	p.known = false
	p.mu.Unlock()
}

// Sample returns the current pointer state.
func (p *Pointer) Sample() PointerSample {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PointerSample{X: p.x, Y: p.y, Known: p.known}
}
