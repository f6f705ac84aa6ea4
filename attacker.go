package main

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Attacker is a homing fighter that shoots at the player
type Attacker struct {
	ID           string
	Position     mgl64.Vec3
	Heading      mgl64.Vec3
	Yaw          float64
	Pitch        float64
	Radius       float64
	Speed        float64
	LastFired    float64
	FireInterval float64
	Exhaust      EmitterID
	Sound        SoundID
}

// NewAttacker creates a fighter at pos with speed and fire interval drawn from the configured bands.
// The fire clock starts at now so a fresh fighter does not shoot on its first frame.
func NewAttacker(pos mgl64.Vec3, now float64, cfg Config, rng *rand.Rand) *Attacker {
	return &Attacker{
		ID:           GenerateID(4),
		Position:     pos,
		Radius:       cfg.AttackerRadius,
		Speed:        cfg.AttackerSpeedMin + rng.Float64()*(cfg.AttackerSpeedMax-cfg.AttackerSpeedMin),
		LastFired:    now,
		FireInterval: cfg.FireIntervalMin + rng.Float64()*(cfg.FireIntervalMax-cfg.FireIntervalMin),
	}
}

// Update steers toward target and moves one frame.
// Returns true if the fighter wants to fire this frame.
func (a *Attacker) Update(target mgl64.Vec3, now float64, cfg Config) bool {
	dir := Direction(a.Position, target)
	a.Heading = dir
	a.Position = a.Position.Add(dir.Mul(a.Speed))
	a.Yaw = math.Atan2(dir.X(), dir.Z())
	a.Pitch = dir.Y() * cfg.AttackerTilt

	if now-a.LastFired > a.FireInterval {
		a.LastFired = now
		return true
	}
	return false
}

// OutOfBounds reports whether the fighter strayed past limit from target
func (a *Attacker) OutOfBounds(target mgl64.Vec3, limit float64) bool {
	return a.Position.Sub(target).Len() > limit
}

// ToState converts to protocol state
func (a *Attacker) ToState() AttackerState {
	return AttackerState{
		ID:    a.ID,
		X:     round2(a.Position.X()),
		Y:     round2(a.Position.Y()),
		Z:     round2(a.Position.Z()),
		Yaw:   round2(a.Yaw),
		Pitch: round2(a.Pitch),
	}
}
