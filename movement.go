package main

// MovementController applies the per-type motion rules to the simulation
type MovementController struct{}

// UpdatePlayer moves the craft, keeps its exhaust attached and toggles the beam hum
func (MovementController) UpdatePlayer(s *SimulationState, in Input) {
	wasBeaming := s.Player.BeamActive
	s.Player.Update(in, s.Config)
	s.Particles.UpdateEmitterPosition(s.Player.Exhaust, s.exhaustOrigin())

	switch {
	case in.Beam && !wasBeaming:
		s.fx.Audio.PlayEffect(SoundCategoryEffects, SoundBeam)
	case !in.Beam && wasBeaming:
		s.fx.Audio.StopEffect(SoundCategoryEffects, SoundBeam)
	}
}

// UpdateAttackers homes every fighter on the player, fires when due and
// despawns the ones that strayed too far
func (MovementController) UpdateAttackers(s *SimulationState) {
	target := s.Player.Position
	limit := s.Config.OutOfBounds()
	for i := len(s.Entities.Attackers) - 1; i >= 0; i-- {
		a := s.Entities.Attackers[i]
		if a.Update(target, s.Now, s.Config) {
			s.fireProjectile(a)
		}
		if a.OutOfBounds(target, limit) {
			s.Entities.RemoveAttacker(i)
			continue
		}
		s.Particles.UpdateEmitterPosition(a.Exhaust, a.Position)
	}
}

// UpdateProjectiles advances projectiles and drops expired ones
func (MovementController) UpdateProjectiles(s *SimulationState) {
	target := s.Player.Position
	for i := len(s.Entities.Projectiles) - 1; i >= 0; i-- {
		p := s.Entities.Projectiles[i]
		p.Update()
		if p.Expired(target, s.Config) {
			s.Entities.RemoveProjectile(i)
			continue
		}
		s.Particles.UpdateEmitterPosition(p.Trail, p.Position)
	}
}
