package main

import "github.com/go-gl/mathgl/mgl64"

const beamCellSize = 10.0

// BeamAbductionStateMachine moves creatures from Idle to BeingAbducted while
// they sit inside the beam, pulls abducted creatures up to the craft and
// reports the ones that arrived. An abduction is never cancelled.
type BeamAbductionStateMachine struct {
	grid *SpatialGrid
	buf  []int
	done []int
}

// NewBeamAbductionStateMachine creates a state machine for a play area of the given half extent
func NewBeamAbductionStateMachine(halfExtent float64) *BeamAbductionStateMachine {
	return &BeamAbductionStateMachine{
		grid: NewSpatialGrid(halfExtent, beamCellSize),
	}
}

// captures reports whether an idle creature at pos is inside the active beam of p
func captures(p *Player, pos mgl64.Vec3, cfg Config) bool {
	return p.BeamActive &&
		HorizontalDistance(pos, p.Position) < cfg.BeamRange/2 &&
		pos.Y() < p.Position.Y()
}

// Step advances every creature one frame and returns the indexes of creatures
// that reached the craft, in descending order so they can be removed in turn.
func (b *BeamAbductionStateMachine) Step(p *Player, creatures []*Creature, cfg Config) []int {
	if p.BeamActive {
		b.grid.Clear()
		for i, c := range creatures {
			if c.State == Idle {
				b.grid.Insert(c.Position.X(), c.Position.Z(), i)
			}
		}
		b.buf = b.grid.QueryBuf(p.Position.X(), p.Position.Z(), cfg.BeamRange/2, b.buf[:0])
		for _, i := range b.buf {
			if c := creatures[i]; c.State == Idle && captures(p, c.Position, cfg) {
				c.State = BeingAbducted
			}
		}
	}

	target := p.Position.Sub(mgl64.Vec3{0, 1, 0})
	b.done = b.done[:0]
	for i := len(creatures) - 1; i >= 0; i-- {
		c := creatures[i]
		if c.State != BeingAbducted {
			c.IdleUpdate(cfg)
			continue
		}
		c.Progress += cfg.BeamStrength
		c.Position = Lerp(c.Position, target, c.Progress*cfg.AbductionPull)
		c.RotationY += cfg.AbductionSpin

		if c.Position.Sub(p.Position).Len() < cfg.CompletionRadius {
			b.done = append(b.done, i)
		}
	}
	return b.done
}
