package main

import "github.com/go-gl/mathgl/mgl64"

// Projectile travels in a straight line from the attacker that fired it
type Projectile struct {
	ID        string
	Position  mgl64.Vec3
	Direction mgl64.Vec3
	Speed     float64
	Age       int
	Radius    float64
	Trail     EmitterID
}

// NewProjectile aims a projectile from origin at target. A degenerate aim falls back to -Z.
func NewProjectile(origin, target mgl64.Vec3, cfg Config) *Projectile {
	dir := Direction(origin, target)
	if dir.Len() == 0 {
		dir = mgl64.Vec3{0, 0, -1}
	}
	return &Projectile{
		ID:        GenerateID(3),
		Position:  origin,
		Direction: dir,
		Speed:     cfg.ProjectileSpeed,
		Radius:    cfg.ProjectileRadius,
	}
}

// Update moves the projectile one frame
func (p *Projectile) Update() {
	p.Position = p.Position.Add(p.Direction.Mul(p.Speed))
	p.Age++
}

// Expired reports whether the projectile reached its age limit or left the area around target
func (p *Projectile) Expired(target mgl64.Vec3, cfg Config) bool {
	if p.Age >= cfg.ProjectileMaxAge {
		return true
	}
	return p.Position.Sub(target).Len() > cfg.OutOfBounds()
}

// ToState converts to protocol state
func (p *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID: p.ID,
		X:  round2(p.Position.X()),
		Y:  round2(p.Position.Y()),
		Z:  round2(p.Position.Z()),
	}
}
