package main

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// recordingAudio captures every sound request
type recordingAudio struct {
	mu      sync.Mutex
	next    SoundID
	played  []string
	stopped []string
	loops   map[SoundID]string
	stops   map[SoundID]int
}

func newRecordingAudio() *recordingAudio {
	return &recordingAudio{
		loops: make(map[SoundID]string),
		stops: make(map[SoundID]int),
	}
}

func (a *recordingAudio) PlayEffect(category, name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.played = append(a.played, name)
}

func (a *recordingAudio) StopEffect(category, name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = append(a.stopped, name)
}

func (a *recordingAudio) AttachLoop(entityID, category, name string, maxDistance float64) SoundID {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	a.loops[a.next] = entityID
	return a.next
}

func (a *recordingAudio) StopLoop(id SoundID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stops[id]++
}

func (a *recordingAudio) count(name string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, p := range a.played {
		if p == name {
			n++
		}
	}
	return n
}

type recordingEffects struct {
	mu     sync.Mutex
	shakes []float64
}

func (e *recordingEffects) ScreenShake(intensity float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shakes = append(e.shakes, intensity)
}

type switchStatus struct {
	mu     sync.Mutex
	active bool
}

func (s *switchStatus) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *switchStatus) set(v bool) {
	s.mu.Lock()
	s.active = v
	s.mu.Unlock()
}

// eventLog collects delivered events
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) handle(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) count(t EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// testConfig is the default tuning with an empty field and a fixed seed
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CreatureCount = 0
	cfg.Seed = 1
	return cfg
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func newTestState(t *testing.T, cfg Config, audio Audio) (*SimulationState, *EventBus) {
	t.Helper()
	return newTestStateFx(t, cfg, Collaborators{Audio: audio})
}

func newTestStateFx(t *testing.T, cfg Config, fx Collaborators) (*SimulationState, *EventBus) {
	t.Helper()
	events := &EventBus{}
	return newSimulationState(cfg, testRand(), events, fx.withDefaults(), noopMetrics(), zerolog.Nop()), events
}
