package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin     = "join"  // take the pilot seat
	MsgWatch    = "watch" // spectate
	MsgLeave    = "leave"
	MsgInput    = "input"
	MsgCreate   = "create"  // create session
	MsgList     = "list"    // list sessions
	MsgCheck    = "check"   // check if session exists
	MsgControl  = "control" // phone controller attach
	MsgRestart  = "restart"
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth"
	MsgScores   = "scores"
)

// Server -> Client message types
const (
	MsgState     = "state" // binary msgpack FrameState, never sent as JSON
	MsgWelcome   = "welcome"
	MsgSessions  = "sessions"
	MsgJoined    = "joined"
	MsgCreated   = "created" // session created, client should navigate
	MsgError     = "error"
	MsgChecked   = "checked"    // session check response
	MsgControlOK = "control_ok" // controller attach confirmed
	MsgCtrlOn    = "ctrl_on"    // notify pilot: controller attached
	MsgCtrlOff   = "ctrl_off"   // notify pilot: controller detached
	MsgScore     = "score"
	MsgOver      = "over"
	MsgAuthOK    = "auth_ok"
)

// Binary input: [inputMarker, event code]
const inputMarker = 0x01

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// InputMsg carries one control event by name, e.g. "thrust_start"
type InputMsg struct {
	E string `json:"e"`
}

// JoinMsg is sent to pilot or watch a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// CreateMsg is sent when a player wants to create a session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
}

// WelcomeMsg is sent after join or watch
type WelcomeMsg struct {
	ID    string  `json:"id"`
	Field float64 `json:"f"`
	Pilot bool    `json:"pilot"`
}

// ScoreMsg reports rocks destroyed this tick
type ScoreMsg struct {
	Score int `json:"sc"`
	Delta int `json:"d"`
	Hits  int `json:"h"`
}

// OverMsg ends a game
type OverMsg struct {
	Score  int    `json:"sc"`
	Ticks  uint64 `json:"ticks"`
	Reason string `json:"reason"` // "collision" or "quit"
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Pilot    string `json:"pilot,omitempty"`
	Watchers int    `json:"watchers"`
	Score    int    `json:"score"`
	Over     bool   `json:"over"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// ControlMsg is sent by a phone controller to attach to the pilot
type ControlMsg struct {
	SID     string `json:"sid"`
	PilotID string `json:"pid"`
}

// CheckMsg is sent by client to check if a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID      string `json:"sid"`
	Exists   bool   `json:"exists"`
	Name     string `json:"name,omitempty"`
	Pilot    string `json:"pilot,omitempty"`
	Watchers int    `json:"watchers,omitempty"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg authenticates with a password
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg re-authenticates with a stored token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PilotID  int64  `json:"pid"`
	Best     int    `json:"best"` // highest recorded score
}

// ScoresReq asks for the leaderboard
type ScoresReq struct {
	Limit int `json:"limit"`
}
