package main

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 64
)

// Hub tracks connected clients and relays the game to them. It is also the
// game's Audio and Effects collaborator: cues are forwarded to viewers, which
// own playback.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client

	game    *Game
	session *SessionState
	volume  float64
	log     zerolog.Logger

	nextSound atomic.Uint32

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
}

// NewHub creates a hub. Attach must be called before clients connect.
func NewHub(volume float64, log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		ipConns:    make(map[string]int),
		volume:     volume,
		log:        log.With().Str("component", "hub").Logger(),
	}
}

// Attach connects the hub to the game and session it relays
func (h *Hub) Attach(game *Game, session *SessionState) {
	h.game = game
	h.session = session
	game.SetBroadcaster(h)
	game.Subscribe(h.HandleEvent)
	session.OnPhase(func(p Phase) {
		h.broadcastJSON(Envelope{T: MsgPhase, Data: PhaseMsg{Phase: p.String()}})
	})
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events until done is closed
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			client.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
				Controller: client.controller,
				Phase:      h.session.Phase().String(),
			}})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case <-done:
			return
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastState sends a msgpack snapshot to every viewer
func (h *Hub) BroadcastState(msg StateMsg) {
	data, err := msgpack.Marshal(&msg)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal state")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.controller {
			c.SendBinary(data)
		}
	}
}

func (h *Hub) broadcastJSON(msg Envelope) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Str("type", msg.T).Msg("marshal message")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.SendRaw(data)
	}
}

// HandleEvent forwards simulation events to the HUD
func (h *Hub) HandleEvent(e Event) {
	switch e.Type {
	case EventScoreChanged:
		h.broadcastJSON(Envelope{T: MsgScore, Data: ScoreMsg{Score: e.Score, Abducted: e.Abducted}})
	case EventHealthChanged:
		h.broadcastJSON(Envelope{T: MsgHealth, Data: HealthMsg{Health: e.Health}})
	case EventDamageDealt:
		h.broadcastJSON(Envelope{T: MsgDamage, Data: DamageMsg{
			Source: e.Source.String(),
			X:      round2(e.Position.X()),
			Y:      round2(e.Position.Y()),
			Z:      round2(e.Position.Z()),
		}})
	case EventGameEnded:
		h.broadcastJSON(Envelope{T: MsgGameOver, Data: GameOverMsg{Score: e.Score, Abducted: e.Abducted}})
	}
}

func (h *Hub) PlayEffect(category, name string) {
	h.broadcastJSON(Envelope{T: MsgSfx, Data: CueMsg{Category: category, Name: name, Volume: h.volume}})
}

func (h *Hub) StopEffect(category, name string) {
	h.broadcastJSON(Envelope{T: MsgSfxStop, Data: CueMsg{Category: category, Name: name}})
}

// AttachLoop asks viewers to start a positional loop following entityID
func (h *Hub) AttachLoop(entityID, category, name string, maxDistance float64) SoundID {
	id := SoundID(h.nextSound.Add(1))
	h.broadcastJSON(Envelope{T: MsgLoop, Data: CueMsg{
		Category:    category,
		Name:        name,
		Entity:      entityID,
		Sound:       id,
		MaxDistance: maxDistance,
		Volume:      h.volume,
	}})
	return id
}

func (h *Hub) StopLoop(id SoundID) {
	h.broadcastJSON(Envelope{T: MsgLoopStop, Data: CueMsg{Sound: id}})
}

// ScreenShake forwards a shake request; intensity is clamped to [0, 1]
func (h *Hub) ScreenShake(intensity float64) {
	h.broadcastJSON(Envelope{T: MsgShake, Data: CueMsg{Intensity: Clamp(intensity, 0, 1)}})
}
