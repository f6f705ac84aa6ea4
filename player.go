package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Input is the set of controls held during a frame
type Input struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Up       bool
	Down     bool
	Beam     bool
}

// Player is the hovering craft
type Player struct {
	Position   mgl64.Vec3
	Velocity   mgl64.Vec3
	Yaw        float64
	Bank       float64
	Health     int
	BeamActive bool
	Exhaust    EmitterID

	hoverPhase  float64
	hoverOffset float64
}

// NewPlayer places a full-health craft above the origin
func NewPlayer(cfg Config) *Player {
	return &Player{
		Position: mgl64.Vec3{0, cfg.PlayerStartHeight, 0},
		Health:   cfg.PlayerHealth,
	}
}

// acceleration maps held inputs to a per-frame thrust. Forward is -Z.
func (in Input) acceleration(mag float64) mgl64.Vec3 {
	var a mgl64.Vec3
	if in.Forward {
		a[2] -= mag
	}
	if in.Backward {
		a[2] += mag
	}
	if in.Left {
		a[0] -= mag
	}
	if in.Right {
		a[0] += mag
	}
	if in.Up {
		a[1] += mag
	}
	if in.Down {
		a[1] -= mag
	}
	return a
}

// Update integrates one frame of craft motion
func (p *Player) Update(in Input, cfg Config) {
	p.BeamActive = in.Beam

	p.Velocity = p.Velocity.Add(in.acceleration(cfg.PlayerAccel)).Mul(cfg.PlayerDrag)
	if speed := p.Velocity.Len(); speed > cfg.PlayerMaxSpeed {
		p.Velocity = p.Velocity.Mul(cfg.PlayerMaxSpeed / speed)
	}

	p.Position = p.Position.Add(p.Velocity)

	if p.Position[1] < cfg.FloorHeight {
		p.Position[1] = cfg.FloorHeight
		p.Velocity[1] = 0
	}

	// Bounce off the square play boundary
	for _, axis := range [2]int{0, 2} {
		if p.Position[axis] > cfg.GameBounds {
			p.Position[axis] = cfg.GameBounds
			p.Velocity[axis] *= -0.5
		} else if p.Position[axis] < -cfg.GameBounds {
			p.Position[axis] = -cfg.GameBounds
			p.Velocity[axis] *= -0.5
		}
	}

	p.hoverPhase += cfg.HoverSpeed
	offset := cfg.HoverAmplitude * math.Sin(p.hoverPhase)
	p.Position[1] += offset - p.hoverOffset
	p.hoverOffset = offset

	p.Yaw = LerpAngle(p.Yaw, math.Atan2(p.Velocity.X(), p.Velocity.Z()), cfg.TurnLerp)
	p.Bank += (-p.Velocity.X()*cfg.BankFactor - p.Bank) * cfg.TurnLerp
}

// TakeDamage removes health, never going below zero. Returns true when the craft is destroyed.
func (p *Player) TakeDamage(amount int) bool {
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
	return p.Health == 0
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		X:    round2(p.Position.X()),
		Y:    round2(p.Position.Y()),
		Z:    round2(p.Position.Z()),
		Yaw:  round2(p.Yaw),
		Bank: round2(p.Bank),
		HP:   p.Health,
		Beam: p.BeamActive,
	}
}
