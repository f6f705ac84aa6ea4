package main

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Phase is where the session is between menu, play and game over
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "gameover"
	}
	return "menu"
}

const (
	maxNameLen  = 16
	defaultName = "Pilot"
)

// ScoreSink accepts finished runs for the high-score list
type ScoreSink interface {
	Submit(entry HighScore)
}

// SessionState is the game-state collaborator: it gates the simulation,
// mirrors score and health from events and files finished runs.
type SessionState struct {
	mu        sync.RWMutex
	phase     Phase
	name      string
	score     int
	abducted  int
	health    int
	startedAt time.Time
	sink      ScoreSink
	log       zerolog.Logger
	onPhase   func(Phase)
}

// NewSessionState starts in the menu. sink may be nil.
func NewSessionState(sink ScoreSink, log zerolog.Logger) *SessionState {
	return &SessionState{
		phase: PhaseMenu,
		name:  defaultName,
		sink:  sink,
		log:   log.With().Str("component", "session").Logger(),
	}
}

// OnPhase sets a callback fired after every phase change
func (s *SessionState) OnPhase(fn func(Phase)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPhase = fn
}

// IsActive reports whether frames should run
func (s *SessionState) IsActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase == PhasePlaying
}

// Phase returns the current phase
func (s *SessionState) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Score returns the last score reported by the simulation
func (s *SessionState) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

// Health returns the last health reported by the simulation
func (s *SessionState) Health() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.health
}

// Begin enters play under the given pilot name
func (s *SessionState) Begin(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}
	if r := []rune(name); len(r) > maxNameLen {
		name = string(r[:maxNameLen])
	}

	s.mu.Lock()
	s.name = name
	s.score = 0
	s.abducted = 0
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.setPhase(PhasePlaying)
	s.log.Info().Str("pilot", name).Msg("run started")
}

func (s *SessionState) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	fn := s.onPhase
	s.mu.Unlock()
	if fn != nil {
		fn(p)
	}
}

// HandleEvent consumes simulation events
func (s *SessionState) HandleEvent(e Event) {
	switch e.Type {
	case EventScoreChanged:
		s.mu.Lock()
		s.score = e.Score
		s.abducted = e.Abducted
		s.mu.Unlock()
	case EventHealthChanged:
		s.mu.Lock()
		s.health = e.Health
		s.mu.Unlock()
	case EventGameEnded:
		s.mu.Lock()
		entry := HighScore{
			Name:     s.name,
			Score:    e.Score,
			Abducted: e.Abducted,
			Frames:   e.Frame,
			Duration: time.Since(s.startedAt).Seconds(),
		}
		sink := s.sink
		s.score = e.Score
		s.mu.Unlock()

		s.setPhase(PhaseGameOver)
		if sink != nil {
			sink.Submit(entry)
		}
	}
}
