package main

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// EventType is the closed set of notifications the simulation emits
type EventType int

const (
	EventScoreChanged EventType = iota
	EventHealthChanged
	EventGameEnded
	EventDamageDealt
)

func (t EventType) String() string {
	switch t {
	case EventScoreChanged:
		return "score_changed"
	case EventHealthChanged:
		return "health_changed"
	case EventGameEnded:
		return "game_ended"
	case EventDamageDealt:
		return "damage_dealt"
	}
	return "unknown"
}

// Event carries the values relevant to its type; unrelated fields stay zero.
type Event struct {
	Type     EventType
	Frame    uint64
	Score    int
	Health   int
	Abducted int
	Position mgl64.Vec3 // where a hit happened
	Source   EntityKind // what hit the player
}

// EventHandler receives events after the frame that produced them
type EventHandler func(Event)

// EventBus queues events while a frame runs and delivers them once the
// frame is over, so handlers never observe a half-updated simulation.
type EventBus struct {
	flushMu  sync.Mutex // one delivery at a time, in emission order
	mu       sync.Mutex
	pending  []Event
	handlers []EventHandler
}

// Subscribe registers a handler for every event type
func (b *EventBus) Subscribe(h EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Emit queues an event for the next Flush
func (b *EventBus) Emit(e Event) {
	b.mu.Lock()
	b.pending = append(b.pending, e)
	b.mu.Unlock()
}

// Flush delivers queued events in emission order and returns how many were sent.
// Concurrent flushes are serialised so a later flush never overtakes an earlier one.
func (b *EventBus) Flush() int {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	events := b.pending
	b.pending = nil
	handlers := make([]EventHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, e := range events {
		for _, h := range handlers {
			h(e)
		}
	}
	return len(events)
}

// Pending returns the number of undelivered events
func (b *EventBus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
