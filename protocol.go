package main

import "encoding/json"

// Client -> Server message types
const (
	MsgInput   = "input"
	MsgStart   = "start"   // leave the menu and begin a run
	MsgRestart = "restart" // new run after game over
)

// Server -> Client message types
const (
	MsgWelcome  = "welcome"
	MsgScore    = "score"
	MsgHealth   = "health"
	MsgDamage   = "damage"
	MsgGameOver = "gameover"
	MsgPhase    = "phase"
	MsgSfx      = "sfx"
	MsgSfxStop  = "sfx_stop"
	MsgLoop     = "loop"
	MsgLoopStop = "loop_stop"
	MsgShake    = "shake"
	MsgError    = "error"
)

// Binary input: [binaryInputTag, flags]
const binaryInputTag = 0x01

// Input flag bits in a binary input message
const (
	FlagForward = 1 << iota
	FlagBackward
	FlagLeft
	FlagRight
	FlagUp
	FlagDown
	FlagBeam
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// InputMsg is the JSON form of the held controls
type InputMsg struct {
	Forward  bool `json:"f"`
	Backward bool `json:"b"`
	Left     bool `json:"l"`
	Right    bool `json:"r"`
	Up       bool `json:"u"`
	Down     bool `json:"d"`
	Beam     bool `json:"beam"`
}

// Input converts the message into simulation controls
func (m InputMsg) Input() Input {
	return Input(m)
}

// InputFromFlags decodes the flag byte of a binary input message
func InputFromFlags(flags byte) Input {
	return Input{
		Forward:  flags&FlagForward != 0,
		Backward: flags&FlagBackward != 0,
		Left:     flags&FlagLeft != 0,
		Right:    flags&FlagRight != 0,
		Up:       flags&FlagUp != 0,
		Down:     flags&FlagDown != 0,
		Beam:     flags&FlagBeam != 0,
	}
}

// StartMsg begins a run under the given pilot name
type StartMsg struct {
	Name string `json:"name"`
}

// WelcomeMsg tells a client what role it was given
type WelcomeMsg struct {
	Controller bool   `json:"ctrl"`
	Phase      string `json:"phase"`
}

// PlayerState is the craft in a state snapshot
type PlayerState struct {
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	Z    float64 `json:"z" msgpack:"z"`
	Yaw  float64 `json:"yaw" msgpack:"yaw"`
	Bank float64 `json:"bank" msgpack:"bank"`
	HP   int     `json:"hp" msgpack:"hp"`
	Beam bool    `json:"beam" msgpack:"beam"`
}

// CreatureState is broadcast per creature
type CreatureState struct {
	ID string  `json:"id" msgpack:"id"`
	X  float64 `json:"x" msgpack:"x"`
	Y  float64 `json:"y" msgpack:"y"`
	Z  float64 `json:"z" msgpack:"z"`
	R  float64 `json:"r" msgpack:"r"`
	A  bool    `json:"a" msgpack:"a"` // being abducted
}

// AttackerState is broadcast per attacker
type AttackerState struct {
	ID    string  `json:"id" msgpack:"id"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Z     float64 `json:"z" msgpack:"z"`
	Yaw   float64 `json:"yaw" msgpack:"yaw"`
	Pitch float64 `json:"pitch" msgpack:"pitch"`
}

// ProjectileState is broadcast per projectile
type ProjectileState struct {
	ID string  `json:"id" msgpack:"id"`
	X  float64 `json:"x" msgpack:"x"`
	Y  float64 `json:"y" msgpack:"y"`
	Z  float64 `json:"z" msgpack:"z"`
}

// StateMsg is the full snapshot, sent to viewers as msgpack
type StateMsg struct {
	Frame       uint64            `json:"frame" msgpack:"frame"`
	Score       int               `json:"score" msgpack:"score"`
	Abducted    int               `json:"abducted" msgpack:"abducted"`
	Ended       bool              `json:"ended" msgpack:"ended"`
	Player      PlayerState       `json:"player" msgpack:"player"`
	Creatures   []CreatureState   `json:"creatures" msgpack:"creatures"`
	Attackers   []AttackerState   `json:"attackers" msgpack:"attackers"`
	Projectiles []ProjectileState `json:"projectiles" msgpack:"projectiles"`
	Particles   []EmitterState    `json:"particles" msgpack:"particles"`
}

// ScoreMsg updates the HUD score
type ScoreMsg struct {
	Score    int `json:"score"`
	Abducted int `json:"abducted"`
}

// HealthMsg updates the HUD health
type HealthMsg struct {
	Health int `json:"hp"`
}

// DamageMsg reports a hit on the player
type DamageMsg struct {
	Source string  `json:"src"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
}

// GameOverMsg closes a run
type GameOverMsg struct {
	Score    int `json:"score"`
	Abducted int `json:"abducted"`
}

// PhaseMsg announces a session phase change
type PhaseMsg struct {
	Phase string `json:"phase"`
}

// CueMsg asks the presentation layer to play or stop a sound, or shake the screen
type CueMsg struct {
	Category    string  `json:"cat,omitempty"`
	Name        string  `json:"name,omitempty"`
	Entity      string  `json:"eid,omitempty"`
	Sound       SoundID `json:"sid,omitempty"`
	MaxDistance float64 `json:"dist,omitempty"`
	Volume      float64 `json:"vol,omitempty"`
	Intensity   float64 `json:"i,omitempty"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
