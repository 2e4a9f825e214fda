// Package systems contains the ECS systems that move the dot field.
package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dotfield/components"
	"github.com/pthm-cable/dotfield/config"
)

// Bounds represents the drawing surface bounds.
type Bounds struct {
	Width, Height float64
}

// FieldParams holds everything the field needs to create and move dots.
type FieldParams struct {
	Count           int
	RadiusMin       float64
	RadiusMax       float64
	FallSpeedMin    float64
	FallSpeedMax    float64
	AngularSpeedMax float64
	RespawnY        float64

	RepulsionRadius float64
	ForceDivisor    float64
	Damping         float64
}

// ParamsFromConfig extracts field parameters from the loaded config.
func ParamsFromConfig(cfg *config.Config) FieldParams {
	return FieldParams{
		Count:           cfg.Field.Count,
		RadiusMin:       cfg.Field.RadiusMin,
		RadiusMax:       cfg.Field.RadiusMax,
		FallSpeedMin:    cfg.Field.FallSpeedMin,
		FallSpeedMax:    cfg.Field.FallSpeedMax,
		AngularSpeedMax: cfg.Field.AngularSpeedMax,
		RespawnY:        cfg.Field.RespawnY,
		RepulsionRadius: cfg.Physics.RepulsionRadius,
		ForceDivisor:    cfg.Physics.ForceDivisor,
		Damping:         cfg.Physics.Damping,
	}
}

// DefaultParams returns parameters from the embedded default config.
func DefaultParams() FieldParams {
	return ParamsFromConfig(config.Defaults())
}

// Particle is a flat copy of one dot's components.
type Particle struct {
	X, Y      float64
	VX, VY    float64
	Radius    float64
	FallSpeed float64
	Angle     float64
	AngVel    float64
}

// StepStats summarizes what happened during one Step.
type StepStats struct {
	Wraps    int // dots that left the bottom and restarted at the top
	Repelled int // dots that received a pointer impulse
}

// Field owns a fixed set of falling dots stored as ECS entities.
type Field struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Velocity, components.Rotation, components.Dot]
	filter *ecs.Filter4[components.Position, components.Velocity, components.Rotation, components.Dot]

	posMap *ecs.Map[components.Position]
	velMap *ecs.Map[components.Velocity]
	rotMap *ecs.Map[components.Rotation]
	dotMap *ecs.Map[components.Dot]

	// entities keeps creation order so dots can be addressed by index.
	entities []ecs.Entity

	bounds Bounds
	params FieldParams
	rng    *rand.Rand
}

// NewField creates a field and spawns params.Count dots inside bounds.
func NewField(world *ecs.World, bounds Bounds, params FieldParams, rng *rand.Rand) *Field {
	f := &Field{
		world:  world,
		mapper: ecs.NewMap4[components.Position, components.Velocity, components.Rotation, components.Dot](world),
		filter: ecs.NewFilter4[components.Position, components.Velocity, components.Rotation, components.Dot](world),
		posMap: ecs.NewMap[components.Position](world),
		velMap: ecs.NewMap[components.Velocity](world),
		rotMap: ecs.NewMap[components.Rotation](world),
		dotMap: ecs.NewMap[components.Dot](world),
		bounds: bounds,
		params: params,
		rng:    rng,
	}
	f.spawn()
	return f
}

// spawn creates the initial dots.
func (f *Field) spawn() {
	f.entities = make([]ecs.Entity, 0, f.params.Count)
	for i := 0; i < f.params.Count; i++ {
		pos, vel, rot, dot := f.newDot()
		e := f.mapper.NewEntity(&pos, &vel, &rot, &dot)
		f.entities = append(f.entities, e)
	}
}

// newDot draws a fresh set of components inside the current bounds.
func (f *Field) newDot() (components.Position, components.Velocity, components.Rotation, components.Dot) {
	p := f.params
	pos := components.Position{
		X: f.rng.Float64() * f.bounds.Width,
		Y: f.rng.Float64() * f.bounds.Height,
	}
	rot := components.Rotation{
		Angle:  f.rng.Float64() * 2 * math.Pi,
		AngVel: (f.rng.Float64()*2 - 1) * p.AngularSpeedMax,
	}
	dot := components.Dot{
		Radius:    p.RadiusMin + f.rng.Float64()*(p.RadiusMax-p.RadiusMin),
		FallSpeed: p.FallSpeedMin + f.rng.Float64()*(p.FallSpeedMax-p.FallSpeedMin),
	}
	return pos, components.Velocity{}, rot, dot
}

// Reseed replaces the state of every dot, keeping the count.
func (f *Field) Reseed() {
	query := f.filter.Query()
	for query.Next() {
		pos, vel, rot, dot := query.Get()
		*pos, *vel, *rot, *dot = f.newDot()
	}
}

// Resize changes the bounds. With reseed set the dots are recreated
// inside the new bounds; otherwise they keep falling where they are.
func (f *Field) Resize(bounds Bounds, reseed bool) {
	f.bounds = bounds
	if reseed {
		f.Reseed()
	}
}

// Step advances every dot by one frame.
func (f *Field) Step(ptr PointerSample) StepStats {
	var stats StepStats
	p := f.params

	query := f.filter.Query()
	for query.Next() {
		pos, vel, rot, dot := query.Get()

		// Fall plus pointer-induced drift
		pos.Y += dot.FallSpeed + vel.Y
		pos.X += vel.X
		rot.Angle += rot.AngVel

		// The pointer can push a dot upward but never above the respawn line
		if pos.Y < p.RespawnY {
			pos.Y = p.RespawnY
			if vel.Y < 0 {
				vel.Y = 0
			}
		}

		// Wrap to the top once below the surface
		if pos.Y > f.bounds.Height {
			pos.Y = p.RespawnY
			pos.X = f.rng.Float64() * f.bounds.Width
			vel.X = 0
			vel.Y = 0
			stats.Wraps++
		}

		if ptr.Known {
			ix, iy, ok := Repel(pos.X-ptr.X, pos.Y-ptr.Y, p.RepulsionRadius, p.ForceDivisor)
			if ok {
				vel.X += ix
				vel.Y += iy
				stats.Repelled++
			}
		}

		vel.X *= p.Damping
		vel.Y *= p.Damping
	}

	return stats
}

// Particles appends a copy of every dot to dst and returns it.
// Pass dst[:0] to reuse a buffer between frames.
func (f *Field) Particles(dst []Particle) []Particle {
	query := f.filter.Query()
	for query.Next() {
		pos, vel, rot, dot := query.Get()
		dst = append(dst, Particle{
			X: pos.X, Y: pos.Y,
			VX: vel.X, VY: vel.Y,
			Radius:    dot.Radius,
			FallSpeed: dot.FallSpeed,
			Angle:     rot.Angle,
			AngVel:    rot.AngVel,
		})
	}
	return dst
}

// Particle returns a copy of the i-th dot in creation order.
func (f *Field) Particle(i int) Particle {
	e := f.entities[i]
	pos := f.posMap.Get(e)
	vel := f.velMap.Get(e)
	rot := f.rotMap.Get(e)
	dot := f.dotMap.Get(e)
	return Particle{
		X: pos.X, Y: pos.Y,
		VX: vel.X, VY: vel.Y,
		Radius:    dot.Radius,
		FallSpeed: dot.FallSpeed,
		Angle:     rot.Angle,
		AngVel:    rot.AngVel,
	}
}

// Place moves the i-th dot and sets its velocity. Shape and speeds are untouched.
func (f *Field) Place(i int, x, y, vx, vy float64) {
	e := f.entities[i]
	pos := f.posMap.Get(e)
	vel := f.velMap.Get(e)
	pos.X, pos.Y = x, y
	vel.X, vel.Y = vx, vy
}

// SetPhysics replaces the motion parameters without touching the dots.
func (f *Field) SetPhysics(repulsionRadius, forceDivisor, damping float64) {
	f.params.RepulsionRadius = repulsionRadius
	f.params.ForceDivisor = forceDivisor
	f.params.Damping = damping
}

// Len returns the number of dots.
func (f *Field) Len() int {
	return len(f.entities)
}

// Bounds returns the current bounds.
func (f *Field) Bounds() Bounds {
	return f.bounds
}
