package main

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrUnknownProfile is returned when an emitter names a profile that does not exist
var ErrUnknownProfile = errors.New("unknown particle profile")

const (
	colorJitter    = 0.05
	resetJitter    = 0.1 // fraction of profile speed
	fadeStartRatio = 0.7
)

// EmitterID is a handle to an emitter owned by the ParticleEngine. Zero is never issued.
type EmitterID uint32

// emitter stores per-particle state in parallel slices.
// pos, vel, base and col hold three values per particle; positions are local to origin.
type emitter struct {
	id      EmitterID
	name    string
	profile ParticleProfile
	origin  mgl64.Vec3
	active  bool
	counter int

	pos     []float64
	vel     []float64
	base    []float64
	col     []float64
	size    []float64
	age     []float64
	opacity []float64
}

func (e *emitter) count() int { return len(e.size) }

// expired reports whether every particle has reached its lifetime
func (e *emitter) expired() bool {
	for _, a := range e.age {
		if a < e.profile.Lifetime {
			return false
		}
	}
	return true
}

// ParticleEngine simulates every emitter once per Update call
type ParticleEngine struct {
	rng       *rand.Rand
	nextID    EmitterID
	emitters  map[EmitterID]*emitter
	order     []EmitterID
	onRelease func(EmitterID)
}

// NewParticleEngine creates an empty engine drawing randomness from rng
func NewParticleEngine(rng *rand.Rand) *ParticleEngine {
	return &ParticleEngine{
		rng:      rng,
		emitters: make(map[EmitterID]*emitter),
	}
}

// OnRelease sets a callback fired once for every emitter that leaves the engine
func (pe *ParticleEngine) OnRelease(fn func(EmitterID)) {
	pe.onRelease = fn
}

// CreateEmitter spawns an emitter with the named profile at position, aimed along direction
func (pe *ParticleEngine) CreateEmitter(profile string, position, direction mgl64.Vec3, opts ...ProfileOption) (EmitterID, error) {
	p, ok := resolveProfile(profile, opts)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownProfile, profile)
	}

	pe.nextID++
	if pe.nextID == 0 {
		pe.nextID = 1
	}
	n := p.Count
	e := &emitter{
		id:      pe.nextID,
		name:    profile,
		profile: p,
		origin:  position,
		active:  true,
		pos:     make([]float64, n*3),
		vel:     make([]float64, n*3),
		base:    make([]float64, n*3),
		col:     make([]float64, n*3),
		size:    make([]float64, n),
		age:     make([]float64, n),
		opacity: make([]float64, n),
	}

	dir := mgl64.Vec3{0, 1, 0}
	if direction.Len() > 0 {
		dir = direction.Normalize()
	}
	for i := 0; i < n; i++ {
		v := pe.spawnVelocity(dir, p)
		j := i * 3
		e.vel[j], e.vel[j+1], e.vel[j+2] = v[0], v[1], v[2]
		copy(e.base[j:j+3], e.vel[j:j+3])
		for c := 0; c < 3; c++ {
			e.col[j+c] = Clamp(p.Color[c]+pe.uniform(-colorJitter, colorJitter), 0, 1)
		}
		e.size[i] = p.Size * pe.uniform(0.7, 1.3)
		e.opacity[i] = p.Opacity
	}

	pe.emitters[e.id] = e
	pe.order = append(pe.order, e.id)
	return e.id, nil
}

func (pe *ParticleEngine) spawnVelocity(dir mgl64.Vec3, p ParticleProfile) mgl64.Vec3 {
	half := p.Spread / 2
	v := mgl64.Vec3{
		dir[0] + pe.uniform(-half, half),
		dir[1] + pe.uniform(-half, half),
		dir[2] + pe.uniform(-half, half),
	}
	if v.Len() == 0 {
		v = dir
	}
	return v.Normalize().Mul(p.Speed * pe.uniform(0.5, 1.5))
}

func (pe *ParticleEngine) uniform(lo, hi float64) float64 {
	return lo + pe.rng.Float64()*(hi-lo)
}

// Update advances every active emitter by dt frames and drops finished one-shot emitters
func (pe *ParticleEngine) Update(dt float64) {
	var finished []EmitterID
	for _, id := range pe.order {
		e := pe.emitters[id]
		if !e.active {
			continue
		}
		pe.step(e, dt)
		if e.profile.OneShot && e.expired() {
			finished = append(finished, id)
		}
	}
	for _, id := range finished {
		pe.RemoveEmitter(id)
	}
}

func (pe *ParticleEngine) step(e *emitter, dt float64) {
	p := e.profile
	fadeAfter := p.Lifetime * fadeStartRatio
	jitter := p.Speed * resetJitter

	for i := 0; i < e.count(); i++ {
		j := i * 3
		if !p.OneShot && e.age[i] >= p.Lifetime && e.counter == 0 {
			e.pos[j], e.pos[j+1], e.pos[j+2] = 0, 0, 0
			for c := 0; c < 3; c++ {
				e.vel[j+c] = e.base[j+c] + pe.uniform(-jitter, jitter)
			}
			e.age[i] = 0
			e.opacity[i] = p.Opacity
			continue
		}
		if e.age[i] >= p.Lifetime {
			continue
		}

		e.pos[j] += e.vel[j] * dt
		e.pos[j+1] += e.vel[j+1] * dt
		e.pos[j+2] += e.vel[j+2] * dt
		e.vel[j+1] -= p.Gravity * dt

		e.age[i] += dt
		if e.age[i] > p.Lifetime {
			e.age[i] = p.Lifetime
		}
		if e.age[i] > fadeAfter {
			e.opacity[i] -= p.FadeRate * dt
			if e.opacity[i] < 0 {
				e.opacity[i] = 0
			}
		}
	}

	e.counter++
	if e.counter >= p.EmissionRate {
		e.counter = 0
	}
}

// UpdateEmitterPosition moves the emitter origin; particles follow since they are stored locally
func (pe *ParticleEngine) UpdateEmitterPosition(id EmitterID, position mgl64.Vec3) {
	if e, ok := pe.emitters[id]; ok {
		e.origin = position
	}
}

// RemoveEmitter releases an emitter. Unknown or already removed ids are ignored.
func (pe *ParticleEngine) RemoveEmitter(id EmitterID) {
	if _, ok := pe.emitters[id]; !ok {
		return
	}
	delete(pe.emitters, id)
	for i, oid := range pe.order {
		if oid == id {
			pe.order = append(pe.order[:i], pe.order[i+1:]...)
			break
		}
	}
	if pe.onRelease != nil {
		pe.onRelease(id)
	}
}

// StopEmitter pauses an emitter without releasing it
func (pe *ParticleEngine) StopEmitter(id EmitterID) {
	if e, ok := pe.emitters[id]; ok {
		e.active = false
	}
}

// StartEmitter resumes a stopped emitter
func (pe *ParticleEngine) StartEmitter(id EmitterID) {
	if e, ok := pe.emitters[id]; ok {
		e.active = true
	}
}

// Exists reports whether the engine still owns id
func (pe *ParticleEngine) Exists(id EmitterID) bool {
	_, ok := pe.emitters[id]
	return ok
}

// Active reports whether id exists and is running
func (pe *ParticleEngine) Active(id EmitterID) bool {
	e, ok := pe.emitters[id]
	return ok && e.active
}

// Len returns the number of live emitters
func (pe *ParticleEngine) Len() int {
	return len(pe.emitters)
}

// Clear releases every emitter
func (pe *ParticleEngine) Clear() {
	ids := make([]EmitterID, len(pe.order))
	copy(ids, pe.order)
	for _, id := range ids {
		pe.RemoveEmitter(id)
	}
}

// EmitterState is a read-only copy of one emitter in world space, laid out
// the way a point-sprite renderer consumes it.
type EmitterState struct {
	ID        EmitterID `json:"id" msgpack:"id"`
	Profile   string    `json:"pf" msgpack:"pf"`
	Positions []float32 `json:"p" msgpack:"p"`
	Colors    []float32 `json:"c" msgpack:"c"`
	Sizes     []float32 `json:"s" msgpack:"s"`
	Opacities []float32 `json:"o" msgpack:"o"`
}

// Snapshot copies every active emitter's buffers
func (pe *ParticleEngine) Snapshot() []EmitterState {
	out := make([]EmitterState, 0, len(pe.order))
	for _, id := range pe.order {
		e := pe.emitters[id]
		if !e.active {
			continue
		}
		n := e.count()
		s := EmitterState{
			ID:        e.id,
			Profile:   e.name,
			Positions: make([]float32, n*3),
			Colors:    make([]float32, n*3),
			Sizes:     make([]float32, n),
			Opacities: make([]float32, n),
		}
		for i := 0; i < n; i++ {
			j := i * 3
			s.Positions[j] = float32(e.origin[0] + e.pos[j])
			s.Positions[j+1] = float32(e.origin[1] + e.pos[j+1])
			s.Positions[j+2] = float32(e.origin[2] + e.pos[j+2])
			s.Colors[j] = float32(e.col[j])
			s.Colors[j+1] = float32(e.col[j+1])
			s.Colors[j+2] = float32(e.col[j+2])
			s.Sizes[i] = float32(e.size[i])
			s.Opacities[i] = float32(e.opacity[i])
		}
		out = append(out, s)
	}
	return out
}

