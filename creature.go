package main

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// AbductionState is where a creature is in the beam state machine
type AbductionState int

const (
	Idle AbductionState = iota
	BeingAbducted
)

func (s AbductionState) String() string {
	if s == BeingAbducted {
		return "abducted"
	}
	return "idle"
}

// Creature is a roaming abduction target
type Creature struct {
	ID        string
	Position  mgl64.Vec3
	RotationY float64
	Radius    float64
	State     AbductionState
	Progress  float64

	BaseY     float64
	IdlePhase float64
	IdleSpeed float64
}

// NewCreature stands a creature on the ground at (x, z)
func NewCreature(x, z float64, terrain Terrain, cfg Config, rng *rand.Rand) *Creature {
	y := terrain.HeightAt(x, z) + cfg.CreatureHeight
	return &Creature{
		ID:        GenerateID(4),
		Position:  mgl64.Vec3{x, y, z},
		RotationY: rng.Float64() * 2 * math.Pi,
		Radius:    cfg.CreatureRadius,
		BaseY:     y,
		IdlePhase: rng.Float64() * 2 * math.Pi,
		IdleSpeed: 0.02 + rng.Float64()*0.04,
	}
}

// SpawnCreatures creates a batch of creatures at random positions inside the play area
func SpawnCreatures(n int, terrain Terrain, cfg Config, rng *rand.Rand) []*Creature {
	out := make([]*Creature, 0, n)
	for i := 0; i < n; i++ {
		x := (rng.Float64()*2 - 1) * cfg.GameBounds
		z := (rng.Float64()*2 - 1) * cfg.GameBounds
		out = append(out, NewCreature(x, z, terrain, cfg, rng))
	}
	return out
}

// IdleUpdate runs the passive bob and sway animation
func (c *Creature) IdleUpdate(cfg Config) {
	if c.State != Idle {
		return
	}
	c.IdlePhase += c.IdleSpeed
	c.Position[1] = c.BaseY + math.Abs(math.Sin(c.IdlePhase))*cfg.IdleBob
	c.RotationY += math.Sin(c.IdlePhase*0.5) * 0.01
}

// ToState converts to protocol state
func (c *Creature) ToState() CreatureState {
	return CreatureState{
		ID: c.ID,
		X:  round2(c.Position.X()),
		Y:  round2(c.Position.Y()),
		Z:  round2(c.Position.Z()),
		R:  round2(c.RotationY),
		A:  c.State == BeingAbducted,
	}
}
