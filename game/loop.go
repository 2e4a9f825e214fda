package game

import "sync"

// FrameID identifies a pending frame request.
type FrameID uint64

// Scheduler runs callbacks once, before the next frame is presented.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// Viewport reports the drawing area size and notifies size changes.
type Viewport interface {
	Size() (w, h float64)
	OnResize(fn func(w, h float64)) (cancel func())
}

// PointerSource notifies pointer movement in surface coordinates and the
// pointer leaving the surface.
type PointerSource interface {
	OnPointerMove(fn func(x, y float64)) (cancel func())
	OnPointerLeave(fn func()) (cancel func())
}

// FrameLoop is the host side of the animation. Backends feed it window
// events with Resize, PointerMove and PointerLeave and drive it with Tick
// once per display refresh.
type FrameLoop struct {
	mu sync.Mutex

	width, height float64

	nextID  FrameID
	pending map[FrameID]func()
	order   []FrameID

	nextListener   uint64
	resizeHandlers map[uint64]func(w, h float64)
	resizeOrder    []uint64
	moveHandlers   map[uint64]func(x, y float64)
	moveOrder      []uint64
	leaveHandlers  map[uint64]func()
	leaveOrder     []uint64
	pointerInside  bool

	frames int64
}

// NewFrameLoop creates a loop for a viewport of the given size.
func NewFrameLoop(w, h float64) *FrameLoop {
	return &FrameLoop{
		width:          w,
		height:         h,
		pending:        make(map[FrameID]func()),
		resizeHandlers: make(map[uint64]func(w, h float64)),
		moveHandlers:   make(map[uint64]func(x, y float64)),
		leaveHandlers:  make(map[uint64]func()),
	}
}

// RequestFrame schedules fn for the next Tick.
func (l *FrameLoop) RequestFrame(fn func()) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	id := l.nextID
	l.pending[id] = fn
	l.order = append(l.order, id)
	return id
}

// CancelFrame drops a pending request. Unknown or already run IDs are ignored.
func (l *FrameLoop) CancelFrame(id FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pending, id)
}

// Pending returns the number of frame callbacks waiting for the next Tick.
func (l *FrameLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Tick runs every callback requested before this call.
// Requests made from inside a callback run on the following Tick.
func (l *FrameLoop) Tick() {
	l.mu.Lock()
	order := l.order
	l.order = nil
	l.frames++
	l.mu.Unlock()

	for _, id := range order {
		l.mu.Lock()
		fn, ok := l.pending[id]
		delete(l.pending, id)
		l.mu.Unlock()
		if ok {
			fn()
		}
	}
}

// Frames returns how many times Tick has been called.
func (l *FrameLoop) Frames() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Size implements Viewport.
func (l *FrameLoop) Size() (w, h float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.width, l.height
}

// OnResize implements Viewport.
func (l *FrameLoop) OnResize(fn func(w, h float64)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextListener++
	id := l.nextListener
	l.resizeHandlers[id] = fn
	l.resizeOrder = append(l.resizeOrder, id)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.resizeHandlers, id)
		l.resizeOrder = removeID(l.resizeOrder, id)
	}
}

// OnPointerMove implements PointerSource.
func (l *FrameLoop) OnPointerMove(fn func(x, y float64)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextListener++
	id := l.nextListener
	l.moveHandlers[id] = fn
	l.moveOrder = append(l.moveOrder, id)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.moveHandlers, id)
		l.moveOrder = removeID(l.moveOrder, id)
	}
}

// OnPointerLeave implements PointerSource.
func (l *FrameLoop) OnPointerLeave(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextListener++
	id := l.nextListener
	l.leaveHandlers[id] = fn
	l.leaveOrder = append(l.leaveOrder, id)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.leaveHandlers, id)
		l.leaveOrder = removeID(l.leaveOrder, id)
	}
}

// Resize records the new viewport size and notifies listeners.
// Repeated sizes are not dispatched.
func (l *FrameLoop) Resize(w, h float64) {
	l.mu.Lock()
	if w == l.width && h == l.height {
		l.mu.Unlock()
		return
	}
	l.width, l.height = w, h
	order := append([]uint64(nil), l.resizeOrder...)
	l.mu.Unlock()

	for _, id := range order {
		l.mu.Lock()
		fn, ok := l.resizeHandlers[id]
		l.mu.Unlock()
		if ok {
			fn(w, h)
		}
	}
}

// PointerMove notifies listeners of a pointer position.
func (l *FrameLoop) PointerMove(x, y float64) {
	l.mu.Lock()
	l.pointerInside = true
	order := append([]uint64(nil), l.moveOrder...)
	l.mu.Unlock()

	for _, id := range order {
		l.mu.Lock()
		fn, ok := l.moveHandlers[id]
		l.mu.Unlock()
		if ok {
			fn(x, y)
		}
	}
}

// PointerLeave notifies listeners that the pointer left the surface.
// Only the first call after a move is dispatched, so hosts may report
// the pointer as outside every frame.
func (l *FrameLoop) PointerLeave() {
	l.mu.Lock()
	if !l.pointerInside {
		l.mu.Unlock()
		return
	}
	l.pointerInside = false
	order := append([]uint64(nil), l.leaveOrder...)
	l.mu.Unlock()

	for _, id := range order {
		l.mu.Lock()
		fn, ok := l.leaveHandlers[id]
		l.mu.Unlock()
		if ok {
			fn()
		}
	}
}

// Listeners returns the number of registered resize listeners and pointer
// listeners, move and leave together.
func (l *FrameLoop) Listeners() (resize, pointer int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.resizeHandlers), len(l.moveHandlers) + len(l.leaveHandlers)
}

func removeID(ids []uint64, id uint64) []uint64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
