package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// ---------- helpers ----------

type testServer struct {
	srv     *httptest.Server
	wsURL   string
	hub     *Hub
	game    *Game
	session *SessionState
	db      *DB
	pairing *Pairing
}

// startTestServer wires a hub, game, session and database the way main does,
// without starting the game loop so tests drive frames themselves.
func startTestServer(t *testing.T) *testServer {
	t.Helper()

	clientDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(clientDir, "index.html"), []byte("<html>test</html>"), 0o644))

	db := openTestDB(t)
	log := zerolog.Nop()
	cfg := testConfig()

	session := NewSessionState(nil, log)
	hub := NewHub(cfg.EffectsVolume, log)
	game := NewGame(cfg, log, Collaborators{Audio: hub, Effects: hub, Status: session})
	game.Subscribe(session.HandleEvent)
	hub.Attach(game, session)

	done := make(chan struct{})
	go hub.Run(done)

	pairing := NewPairing(db, time.Minute, log)
	srv := httptest.NewServer(SetupRoutes(hub, db, pairing, clientDir, 10))
	t.Cleanup(func() {
		srv.Close()
		close(done)
	})

	return &testServer{
		srv:     srv,
		wsURL:   "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws",
		hub:     hub,
		game:    game,
		session: session,
		db:      db,
		pairing: pairing,
	}
}

// dialWS opens a WebSocket connection to the test server.
func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type frame struct {
	binary bool
	raw    []byte
	env    InEnvelope
}

// readFrame reads one message from the WebSocket.
func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	f := frame{binary: msgType == websocket.BinaryMessage, raw: raw}
	if !f.binary {
		require.NoError(t, json.Unmarshal(raw, &f.env))
	}
	return f
}

// readUntil skips messages until one of type msgType arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) InEnvelope {
	t.Helper()
	for i := 0; i < 100; i++ {
		f := readFrame(t, conn)
		if !f.binary && f.env.T == msgType {
			return f.env
		}
	}
	t.Fatalf("no %s message received", msgType)
	return InEnvelope{}
}

// readState skips messages until a binary state snapshot arrives.
func readState(t *testing.T, conn *websocket.Conn) StateMsg {
	t.Helper()
	for i := 0; i < 100; i++ {
		f := readFrame(t, conn)
		if f.binary {
			var st StateMsg
			require.NoError(t, msgpack.Unmarshal(f.raw, &st))
			return st
		}
	}
	t.Fatal("no state snapshot received")
	return StateMsg{}
}

// sendMsg sends a typed message over the WebSocket.
func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	raw, err := json.Marshal(Envelope{T: msgType, Data: data})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func decode[T any](t *testing.T, env InEnvelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.D, &v))
	return v
}

// ---------- viewer flow ----------

func TestViewerWelcomeAndStart(t *testing.T) {
	ts := startTestServer(t)
	conn := dialWS(t, ts.wsURL)

	welcome := decode[WelcomeMsg](t, readUntil(t, conn, MsgWelcome))
	assert.False(t, welcome.Controller)
	assert.Equal(t, "menu", welcome.Phase)

	sendMsg(t, conn, MsgStart, StartMsg{Name: "Ace"})
	health := decode[HealthMsg](t, readUntil(t, conn, MsgHealth))
	assert.Equal(t, 3, health.Health)
	phase := decode[PhaseMsg](t, readUntil(t, conn, MsgPhase))
	assert.Equal(t, "playing", phase.Phase)
	assert.True(t, ts.session.IsActive())
}

func TestBinaryInputReachesGame(t *testing.T) {
	ts := startTestServer(t)
	conn := dialWS(t, ts.wsURL)
	readUntil(t, conn, MsgWelcome)
	sendMsg(t, conn, MsgStart, nil)
	readUntil(t, conn, MsgPhase)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{binaryInputTag, FlagBeam | FlagForward}))
	require.Eventually(t, func() bool {
		ts.game.Tick()
		return ts.game.Snapshot().Player.Beam
	}, 2*time.Second, 10*time.Millisecond)

	cue := decode[CueMsg](t, readUntil(t, conn, MsgSfx))
	assert.Equal(t, SoundBeam, cue.Name)

	ts.hub.BroadcastState(ts.game.Snapshot())
	st := readState(t, conn)
	assert.True(t, st.Player.Beam)
	assert.Positive(t, st.Frame)
	assert.NotEmpty(t, st.Particles)
}

func TestJSONInputReachesGame(t *testing.T) {
	ts := startTestServer(t)
	conn := dialWS(t, ts.wsURL)
	readUntil(t, conn, MsgWelcome)
	sendMsg(t, conn, MsgStart, nil)
	readUntil(t, conn, MsgPhase)

	sendMsg(t, conn, MsgInput, InputMsg{Right: true})
	require.Eventually(t, func() bool {
		ts.game.Tick()
		return ts.game.Snapshot().Player.X > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAttackerLoopCueReachesViewer(t *testing.T) {
	ts := startTestServer(t)
	conn := dialWS(t, ts.wsURL)
	readUntil(t, conn, MsgWelcome)

	var id string
	ts.game.withState(func(s *SimulationState) {
		s.spawnAttacker()
		id = s.Entities.Attackers[0].ID
	})
	cue := decode[CueMsg](t, readUntil(t, conn, MsgLoop))
	assert.Equal(t, id, cue.Entity)
	assert.Equal(t, SoundEngine, cue.Name)
	assert.NotZero(t, cue.Sound)

	ts.game.Restart()
	stop := decode[CueMsg](t, readUntil(t, conn, MsgLoopStop))
	assert.Equal(t, cue.Sound, stop.Sound)
}

func TestGameOverReachesViewer(t *testing.T) {
	ts := startTestServer(t)
	conn := dialWS(t, ts.wsURL)
	readUntil(t, conn, MsgWelcome)
	sendMsg(t, conn, MsgStart, nil)
	readUntil(t, conn, MsgPhase)

	ts.game.withState(func(s *SimulationState) {
		for i := 0; i < s.Player.Health; i++ {
			s.Entities.AddAttacker(NewAttacker(s.Player.Position, s.Now, s.Config, s.rng))
		}
	})
	ts.game.Tick()

	shake := decode[CueMsg](t, readUntil(t, conn, MsgShake))
	assert.Equal(t, 0.5, shake.Intensity)
	// the session handles the event before the hub relays it
	phase := decode[PhaseMsg](t, readUntil(t, conn, MsgPhase))
	assert.Equal(t, "gameover", phase.Phase)
	over := decode[GameOverMsg](t, readUntil(t, conn, MsgGameOver))
	assert.Zero(t, over.Score)
}

// ---------- controller pairing ----------

func TestControllerWithToken(t *testing.T) {
	ts := startTestServer(t)
	tok, err := ts.pairing.IssueToken()
	require.NoError(t, err)

	conn := dialWS(t, ts.wsURL+"?token="+tok)
	welcome := decode[WelcomeMsg](t, readUntil(t, conn, MsgWelcome))
	assert.True(t, welcome.Controller)

	sendMsg(t, conn, MsgStart, nil)
	errMsg := decode[ErrorMsg](t, readUntil(t, conn, MsgError))
	assert.NotEmpty(t, errMsg.Msg)
	assert.False(t, ts.session.IsActive())
}

func TestControllerBadToken(t *testing.T) {
	ts := startTestServer(t)
	_, resp, err := websocket.DefaultDialer.Dial(ts.wsURL+"?token=nope", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPairEndpointServesPNG(t *testing.T) {
	ts := startTestServer(t)
	resp, err := http.Get(ts.srv.URL + "/pair")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))
}

// ---------- HTTP routes ----------

func TestStaticRoot(t *testing.T) {
	ts := startTestServer(t)
	resp, err := http.Get(ts.srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "<html>")
}

func TestHighScoresEndpoint(t *testing.T) {
	ts := startTestServer(t)
	require.NoError(t, ts.db.InsertScores([]HighScore{
		{Name: "a", Score: 100},
		{Name: "b", Score: 900},
	}))

	resp, err := http.Get(ts.srv.URL + "/highscores")
	require.NoError(t, err)
	defer resp.Body.Close()

	var entries []HighScoreEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Name)
	assert.Equal(t, 1, entries[0].Rank)
}

func TestHighScoresWithoutDB(t *testing.T) {
	log := zerolog.Nop()
	hub := NewHub(1, log)
	srv := httptest.NewServer(SetupRoutes(hub, nil, NewPairing(nil, time.Minute, log), t.TempDir(), 10))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/highscores")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// ---------- protocol ----------

func TestInputFromFlags(t *testing.T) {
	assert.Equal(t, Input{}, InputFromFlags(0))
	assert.Equal(t, Input{Forward: true, Beam: true}, InputFromFlags(FlagForward|FlagBeam))
	assert.Equal(t, Input{Left: true, Down: true}, InputFromFlags(FlagLeft|FlagDown))
}

func TestInputMsgDecode(t *testing.T) {
	var msg InputMsg
	require.NoError(t, json.Unmarshal([]byte(`{"f":true,"r":true,"beam":true}`), &msg))
	assert.Equal(t, Input{Forward: true, Right: true, Beam: true}, msg.Input())
}

func TestHubConnectionLimits(t *testing.T) {
	hub := NewHub(1, zerolog.Nop())
	for i := 0; i < maxConnsPerIP; i++ {
		require.True(t, hub.CanAccept("1.2.3.4"))
		hub.TrackConnect("1.2.3.4")
	}
	assert.False(t, hub.CanAccept("1.2.3.4"))
	assert.True(t, hub.CanAccept("5.6.7.8"))
	hub.TrackDisconnect("1.2.3.4")
	assert.True(t, hub.CanAccept("1.2.3.4"))
}

func TestHubSoundIDsIncrease(t *testing.T) {
	hub := NewHub(1, zerolog.Nop())
	a := hub.AttachLoop("x", SoundCategoryEngines, SoundEngine, 50)
	b := hub.AttachLoop("y", SoundCategoryEngines, SoundEngine, 50)
	assert.NotZero(t, a)
	assert.Greater(t, b, a)
}

func TestRateWindow(t *testing.T) {
	var w rateWindow
	now := time.Now()
	for i := 0; i < maxMessagesPerSec; i++ {
		require.True(t, w.allow(now))
	}
	assert.False(t, w.allow(now))
	assert.True(t, w.allow(now.Add(1100*time.Millisecond)))
}
