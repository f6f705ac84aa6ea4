package main

// EntityKind discriminates the simulated entity types
type EntityKind int

const (
	KindPlayer EntityKind = iota
	KindCreature
	KindAttacker
	KindProjectile
)

func (k EntityKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindCreature:
		return "creature"
	case KindAttacker:
		return "attacker"
	case KindProjectile:
		return "projectile"
	}
	return "unknown"
}

// EntityRegistry holds the live creatures, attackers and projectiles.
// Removing an entity releases the emitter and sound it owns in the same call.
// Slices keep insertion order; callers removing while iterating walk backward.
type EntityRegistry struct {
	Creatures   []*Creature
	Attackers   []*Attacker
	Projectiles []*Projectile

	particles *ParticleEngine
	audio     Audio
}

// NewEntityRegistry creates an empty registry releasing resources into particles and audio
func NewEntityRegistry(particles *ParticleEngine, audio Audio) *EntityRegistry {
	return &EntityRegistry{particles: particles, audio: audio}
}

func (r *EntityRegistry) AddCreature(c *Creature)     { r.Creatures = append(r.Creatures, c) }
func (r *EntityRegistry) AddAttacker(a *Attacker)     { r.Attackers = append(r.Attackers, a) }
func (r *EntityRegistry) AddProjectile(p *Projectile) { r.Projectiles = append(r.Projectiles, p) }

// RemoveCreature drops the creature at index i. Out of range indexes are ignored.
func (r *EntityRegistry) RemoveCreature(i int) {
	if i < 0 || i >= len(r.Creatures) {
		return
	}
	copy(r.Creatures[i:], r.Creatures[i+1:])
	r.Creatures[len(r.Creatures)-1] = nil
	r.Creatures = r.Creatures[:len(r.Creatures)-1]
}

// RemoveAttacker drops the attacker at index i and releases its exhaust and engine loop
func (r *EntityRegistry) RemoveAttacker(i int) {
	if i < 0 || i >= len(r.Attackers) {
		return
	}
	r.releaseAttacker(r.Attackers[i])
	copy(r.Attackers[i:], r.Attackers[i+1:])
	r.Attackers[len(r.Attackers)-1] = nil
	r.Attackers = r.Attackers[:len(r.Attackers)-1]
}

// RemoveProjectile drops the projectile at index i and releases its trail
func (r *EntityRegistry) RemoveProjectile(i int) {
	if i < 0 || i >= len(r.Projectiles) {
		return
	}
	r.releaseProjectile(r.Projectiles[i])
	copy(r.Projectiles[i:], r.Projectiles[i+1:])
	r.Projectiles[len(r.Projectiles)-1] = nil
	r.Projectiles = r.Projectiles[:len(r.Projectiles)-1]
}

// Clear removes every entity, releasing owned resources
func (r *EntityRegistry) Clear() {
	for i := len(r.Attackers) - 1; i >= 0; i-- {
		r.RemoveAttacker(i)
	}
	for i := len(r.Projectiles) - 1; i >= 0; i-- {
		r.RemoveProjectile(i)
	}
	r.Creatures = r.Creatures[:0]
}

// Handles are zeroed after release so a second release is a no-op.
func (r *EntityRegistry) releaseAttacker(a *Attacker) {
	if a.Exhaust != 0 {
		r.particles.RemoveEmitter(a.Exhaust)
		a.Exhaust = 0
	}
	if a.Sound != 0 {
		r.audio.StopLoop(a.Sound)
		a.Sound = 0
	}
}

func (r *EntityRegistry) releaseProjectile(p *Projectile) {
	if p.Trail != 0 {
		r.particles.RemoveEmitter(p.Trail)
		p.Trail = 0
	}
}

// Counts returns the number of creatures, attackers and projectiles
func (r *EntityRegistry) Counts() (creatures, attackers, projectiles int) {
	return len(r.Creatures), len(r.Attackers), len(r.Projectiles)
}
