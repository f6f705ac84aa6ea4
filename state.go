package main

import (
	"errors"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// SimulationState is everything one run of the game mutates.
// It is owned by Game and only touched while the game lock is held.
type SimulationState struct {
	Config    Config
	Frame     uint64
	Now       float64 // simulation clock in milliseconds
	Player    *Player
	Entities  *EntityRegistry
	Spawner   *SpawnScheduler
	Particles *ParticleEngine
	Score     int
	Abducted  int
	Ended     bool

	rng     *rand.Rand
	events  *EventBus
	fx      Collaborators
	metrics *Metrics
	log     zerolog.Logger
}

func newSimulationState(cfg Config, rng *rand.Rand, events *EventBus, fx Collaborators, metrics *Metrics, log zerolog.Logger) *SimulationState {
	particles := NewParticleEngine(rng)
	s := &SimulationState{
		Config:    cfg,
		Particles: particles,
		Entities:  NewEntityRegistry(particles, fx.Audio),
		Spawner:   NewSpawnScheduler(cfg),
		rng:       rng,
		events:    events,
		fx:        fx,
		metrics:   metrics,
		log:       log,
	}
	s.reset()
	return s
}

// reset releases everything the previous run owned and sets up a fresh one
func (s *SimulationState) reset() {
	s.stopBeam()
	s.Entities.Clear()
	s.Particles.Clear()

	s.Frame = 0
	s.Score = 0
	s.Abducted = 0
	s.Ended = false
	s.Spawner.Reset(s.Now)

	s.Player = NewPlayer(s.Config)
	s.Player.Exhaust = s.emit(ProfileExhaust, s.exhaustOrigin(), mgl64.Vec3{0, -1, 0})

	for _, c := range SpawnCreatures(s.Config.CreatureCount, s.fx.Terrain, s.Config, s.rng) {
		s.Entities.AddCreature(c)
	}
	s.log.Debug().Int("creatures", s.Config.CreatureCount).Msg("run initialised")
}

// stopBeam silences a held beam when its run ends
func (s *SimulationState) stopBeam() {
	if s.Player == nil || !s.Player.BeamActive {
		return
	}
	s.Player.BeamActive = false
	s.fx.Audio.StopEffect(SoundCategoryEffects, SoundBeam)
}

func (s *SimulationState) exhaustOrigin() mgl64.Vec3 {
	return s.Player.Position.Sub(mgl64.Vec3{0, 0.5, 0})
}

// emit creates an emitter, logging and returning zero if the profile is unknown
func (s *SimulationState) emit(profile string, pos, dir mgl64.Vec3, opts ...ProfileOption) EmitterID {
	id, err := s.Particles.CreateEmitter(profile, pos, dir, opts...)
	if err != nil {
		if errors.Is(err, ErrUnknownProfile) {
			s.log.Debug().Err(err).Msg("emitter skipped")
		}
		return 0
	}
	s.metrics.emitterCreated(profile)
	return id
}

func (s *SimulationState) spawnAttacker() {
	pos := SpawnPoint(s.Player.Position, s.Config, s.rng)
	a := NewAttacker(pos, s.Now, s.Config, s.rng)
	a.Exhaust = s.emit(ProfileExhaust, pos, Direction(s.Player.Position, pos))
	a.Sound = s.fx.Audio.AttachLoop(a.ID, SoundCategoryEngines, SoundEngine, s.Config.SoundDistance)
	s.Entities.AddAttacker(a)
	s.metrics.attackerSpawned()
	s.log.Debug().Str("id", a.ID).Float64("interval", s.Spawner.Interval()).Msg("attacker spawned")
}

func (s *SimulationState) fireProjectile(a *Attacker) {
	p := NewProjectile(a.Position, s.Player.Position, s.Config)
	p.Trail = s.emit(ProfileTrail, p.Position, p.Direction.Mul(-1))
	s.Entities.AddProjectile(p)
	s.fx.Audio.PlayEffect(SoundCategoryEffects, SoundLaser)
}

// completeAbduction removes the creature at index i and awards the player
func (s *SimulationState) completeAbduction(i int) {
	c := s.Entities.Creatures[i]
	s.Entities.RemoveCreature(i)
	s.Score += s.Config.AbductionScore
	s.Abducted++
	s.Spawner.Tighten()

	s.emit(ProfileSparkle, c.Position, mgl64.Vec3{0, 1, 0})
	s.fx.Audio.PlayEffect(SoundCategoryEffects, SoundAbduct)
	s.metrics.abducted()
	s.events.Emit(Event{Type: EventScoreChanged, Frame: s.Frame, Score: s.Score, Abducted: s.Abducted})
}

// applyHit damages the player once for h and ends the run when health runs out
func (s *SimulationState) applyHit(h Hit) {
	s.Player.TakeDamage(1)
	s.events.Emit(Event{Type: EventDamageDealt, Frame: s.Frame, Health: s.Player.Health, Position: h.Position, Source: h.Kind})
	s.events.Emit(Event{Type: EventHealthChanged, Frame: s.Frame, Health: s.Player.Health})

	s.emit(ProfileExplosion, h.Position, mgl64.Vec3{0, 1, 0})
	s.fx.Audio.PlayEffect(SoundCategoryEffects, SoundExplosion)
	s.fx.Effects.ScreenShake(s.Config.ShakeIntensity)
	s.metrics.hit(h.Kind)

	if s.Player.Health <= 0 && !s.Ended {
		s.Ended = true
		s.stopBeam()
		s.events.Emit(Event{Type: EventGameEnded, Frame: s.Frame, Score: s.Score, Abducted: s.Abducted})
		s.log.Info().Int("score", s.Score).Int("abducted", s.Abducted).Uint64("frames", s.Frame).Msg("player destroyed")
	}
}
