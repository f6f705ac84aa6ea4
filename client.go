package main

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 1024
	sendBufSize       = 256
	maxMessagesPerSec = 120
)

// outbound is one queued frame
type outbound struct {
	binary bool
	data   []byte
}

// Client is a WebSocket connection. Viewers render the game and may drive it;
// controllers (paired phones) may only send input.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan outbound
	remoteAddr string
	controller bool
	limit      rateWindow
	log        zerolog.Logger
}

// rateWindow counts messages in one-second windows
type rateWindow struct {
	count   int
	resetAt time.Time
}

func (w *rateWindow) allow(now time.Time) bool {
	if now.After(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(time.Second)
	}
	w.count++
	return w.count <= maxMessagesPerSec
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string, controller bool) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan outbound, sendBufSize),
		remoteAddr: remoteAddr,
		controller: controller,
		log:        hub.log.With().Str("remote", remoteAddr).Bool("controller", controller).Logger(),
	}
}

// ReadPump decodes viewer and controller messages until the connection drops
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("ws error")
			}
			break
		}

		if !c.limit.allow(time.Now()) {
			c.log.Warn().Int("limit", maxMessagesPerSec).Msg("input flood, disconnecting")
			break
		}

		if msgType == websocket.BinaryMessage {
			c.handleBinary(message)
			continue
		}
		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case out, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			kind := websocket.TextMessage
			if out.binary {
				kind = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(kind, out.data); err != nil {
				c.log.Debug().Err(err).Msg("write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON marshals msg and queues it as a text frame
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error().Err(err).Msg("marshal error")
		return
	}
	c.SendRaw(data)
}

// SendRaw queues pre-marshaled JSON
func (c *Client) SendRaw(data []byte) {
	c.enqueue(outbound{data: data})
}

// SendBinary queues a msgpack frame
func (c *Client) SendBinary(data []byte) {
	c.enqueue(outbound{binary: true, data: data})
}

// enqueue drops the frame when the client is too slow. The recover covers a
// send racing the hub closing the channel.
func (c *Client) enqueue(out outbound) {
	defer func() { recover() }()
	select {
	case c.send <- out:
	default:
	}
}

// handleBinary accepts the compact [tag, flags] input frame and ignores anything else
func (c *Client) handleBinary(msg []byte) {
	if len(msg) != 2 || msg[0] != binaryInputTag {
		c.log.Debug().Int("len", len(msg)).Msg("unknown binary frame")
		return
	}
	c.hub.game.HandleInput(InputFromFlags(msg[1]))
}

// handleMessage routes incoming JSON messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Debug().Err(err).Msg("unmarshal error")
		return
	}

	switch env.T {
	case MsgInput:
		c.handleInput(env.D)
	case MsgStart, MsgRestart:
		if c.controller {
			c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "controllers cannot start runs"}})
			return
		}
		c.handleStart(env.D)
	}
}

func (c *Client) handleInput(data json.RawMessage) {
	var msg InputMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.hub.game.HandleInput(msg.Input())
}

func (c *Client) handleStart(data json.RawMessage) {
	var msg StartMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
	}
	if c.hub.session.Phase() == PhasePlaying && !c.hub.game.Ended() {
		return
	}
	c.hub.game.Restart()
	c.hub.session.Begin(msg.Name)
}
