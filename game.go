package main

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Broadcaster receives state snapshots from the game loop
type Broadcaster interface {
	BroadcastState(msg StateMsg)
}

// Game owns the simulation and runs it one frame per tick in a fixed order:
// player, creatures and beam, spawning, attackers, projectiles, particles, collisions.
type Game struct {
	mu         sync.Mutex
	cfg        Config
	log        zerolog.Logger
	state      *SimulationState
	events     *EventBus
	fx         Collaborators
	metrics    *Metrics
	movement   MovementController
	beam       *BeamAbductionStateMachine
	collisions CollisionResolver
	input      Input

	broadcaster Broadcaster
	running     bool
	stop        chan struct{}
}

// NewGame creates a game with a freshly initialised run
func NewGame(cfg Config, log zerolog.Logger, fx Collaborators) *Game {
	fx = fx.withDefaults()
	log = log.With().Str("component", "game").Logger()

	metrics, err := NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("metrics disabled")
		metrics = noopMetrics()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	events := &EventBus{}
	return &Game{
		cfg:     cfg,
		log:     log,
		state:   newSimulationState(cfg, rng, events, fx, metrics, log),
		events:  events,
		fx:      fx,
		metrics: metrics,
		beam:    NewBeamAbductionStateMachine(cfg.GameBounds),
		stop:    make(chan struct{}),
	}
}

// Subscribe registers a handler for simulation events
func (g *Game) Subscribe(h EventHandler) {
	g.events.Subscribe(h)
}

// SetBroadcaster sets where Run sends snapshots
func (g *Game) SetBroadcaster(b Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.broadcaster = b
}

// HandleInput replaces the held controls used from the next frame on
func (g *Game) HandleInput(in Input) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.input = in
}

// Tick runs one frame if the game is active and the run has not ended.
// Events produced by the frame are delivered after the lock is released.
func (g *Game) Tick() bool {
	g.mu.Lock()
	ran := g.step()
	g.mu.Unlock()

	g.events.Flush()
	return ran
}

func (g *Game) step() bool {
	s := g.state
	if s.Ended || !g.fx.Status.IsActive() {
		return false
	}
	s.Frame++
	s.Now += s.Config.FrameMillis
	g.metrics.frame()

	g.movement.UpdatePlayer(s, g.input)

	for _, i := range g.beam.Step(s.Player, s.Entities.Creatures, s.Config) {
		s.completeAbduction(i)
	}

	if s.Spawner.Update(s.Now) {
		s.spawnAttacker()
	}
	g.movement.UpdateAttackers(s)
	g.movement.UpdateProjectiles(s)

	s.Particles.Update(1)

	for _, h := range g.collisions.Resolve(s.Player, s.Entities, s.Config) {
		s.applyHit(h)
	}
	return true
}

// Restart discards the current run and starts a new one
func (g *Game) Restart() {
	g.mu.Lock()
	s := g.state
	s.reset()
	g.input = Input{}
	s.events.Emit(Event{Type: EventScoreChanged, Score: 0})
	s.events.Emit(Event{Type: EventHealthChanged, Health: s.Player.Health})
	g.mu.Unlock()

	g.events.Flush()
	g.log.Info().Msg("run restarted")
}

// Ended reports whether the current run is over
func (g *Game) Ended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Ended
}

// Run starts the game loop and blocks until ctx is done or Stop is called
func (g *Game) Run(ctx context.Context) {
	g.mu.Lock()
	g.running = true
	every := g.cfg.BroadcastEvery()
	g.mu.Unlock()

	ticker := time.NewTicker(time.Second / time.Duration(g.cfg.TickRate))
	defer ticker.Stop()

	var ticks int
	for {
		select {
		case <-ticker.C:
			g.Tick()
			ticks++
			if ticks%every == 0 {
				g.broadcastState()
			}
		case <-g.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

func (g *Game) broadcastState() {
	g.mu.Lock()
	b := g.broadcaster
	g.mu.Unlock()
	if b == nil {
		return
	}
	b.BroadcastState(g.Snapshot())
}

// Snapshot copies the current state for presentation
func (g *Game) Snapshot() StateMsg {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.state
	msg := StateMsg{
		Frame:       s.Frame,
		Score:       s.Score,
		Abducted:    s.Abducted,
		Ended:       s.Ended,
		Player:      s.Player.ToState(),
		Creatures:   make([]CreatureState, 0, len(s.Entities.Creatures)),
		Attackers:   make([]AttackerState, 0, len(s.Entities.Attackers)),
		Projectiles: make([]ProjectileState, 0, len(s.Entities.Projectiles)),
		Particles:   s.Particles.Snapshot(),
	}
	for _, c := range s.Entities.Creatures {
		msg.Creatures = append(msg.Creatures, c.ToState())
	}
	for _, a := range s.Entities.Attackers {
		msg.Attackers = append(msg.Attackers, a.ToState())
	}
	for _, p := range s.Entities.Projectiles {
		msg.Projectiles = append(msg.Projectiles, p.ToState())
	}
	return msg
}

// withState runs fn against the live simulation under the game lock
func (g *Game) withState(fn func(s *SimulationState)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.state)
}
