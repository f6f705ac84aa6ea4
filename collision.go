package main

import "github.com/go-gl/mathgl/mgl64"

// CheckCollision checks if two spheres overlap
func CheckCollision(a mgl64.Vec3, ra float64, b mgl64.Vec3, rb float64) bool {
	d := b.Sub(a)
	radSum := ra + rb
	return d.Dot(d) < radSum*radSum
}

// Hit describes one entity that struck the player
type Hit struct {
	Kind     EntityKind
	Position mgl64.Vec3
}

// CollisionResolver tests attackers and projectiles against the player
type CollisionResolver struct {
	hits []Hit
}

// Resolve removes every attacker and projectile touching the player and
// returns what hit. Each hit is applied independently by the caller.
func (r *CollisionResolver) Resolve(p *Player, reg *EntityRegistry, cfg Config) []Hit {
	r.hits = r.hits[:0]
	for i := len(reg.Attackers) - 1; i >= 0; i-- {
		a := reg.Attackers[i]
		if CheckCollision(p.Position, cfg.PlayerRadius, a.Position, a.Radius) {
			r.hits = append(r.hits, Hit{Kind: KindAttacker, Position: a.Position})
			reg.RemoveAttacker(i)
		}
	}
	for i := len(reg.Projectiles) - 1; i >= 0; i-- {
		pr := reg.Projectiles[i]
		if CheckCollision(p.Position, cfg.PlayerRadius, pr.Position, pr.Radius) {
			r.hits = append(r.hits, Hit{Kind: KindProjectile, Position: pr.Position})
			reg.RemoveProjectile(i)
		}
	}
	return r.hits
}
