package main

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robertazzopardi/asteroids/sim"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
	maxNameLen        = 16
	maxSessionNameLen = 30
	defaultScoreLimit = 10
	maxScoreLimit     = 100

	binaryMarker = 0xFF
)

type clientRole uint8

const (
	roleNone clientRole = iota
	rolePilot
	roleWatcher
	roleController
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	id         string
	role       clientRole
	sessionID  string
	pilotID    string // controllers drive this pilot
	remoteAddr string
	msgCount   int
	msgResetAt time.Time

	authPilotID  int64 // 0 = guest
	authUsername string
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		id:         GenerateID(4),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.Unregister(c)
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
				log.Warn().Err(err).Str("client", c.id).Msg("ws error")
			}
			break
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Warn().Str("addr", c.remoteAddr).Msg("rate limit exceeded, disconnecting")
			break
		}

		// binary input is exactly [inputMarker, event code]
		if msgType == websocket.BinaryMessage {
			if len(message) == 2 && message[0] == inputMarker {
				c.applyInput(sim.Event(message[1]))
			}
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
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			var err error
			if len(message) > 0 && message[0] == binaryMarker {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
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

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("marshal error")
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }() // send may already be closed
	select {
	case c.send <- data:
	default:
		// slow client, drop
	}
}

// SendBinary queues a binary message, prefixed with binaryMarker so
// WritePump can tell it from text
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = binaryMarker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage routes text messages
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Debug().Err(err).Str("client", c.id).Msg("bad message")
		return
	}

	switch env.T {
	case MsgList:
		c.SendJSON(Envelope{T: MsgSessions, Data: c.hub.sessions.ListSessions()})
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgJoin:
		c.handleJoin(env.D, rolePilot)
	case MsgWatch:
		c.handleJoin(env.D, roleWatcher)
	case MsgInput:
		c.handleInput(env.D)
	case MsgLeave:
		c.detach()
	case MsgCheck:
		c.handleCheck(env.D)
	case MsgControl:
		c.handleControl(env.D)
	case MsgRestart:
		c.handleRestart()
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgScores:
		c.handleScores(env.D)
	}
}

func (c *Client) pilotName(name string) string {
	if c.authUsername != "" {
		return c.authUsername
	}
	if name == "" {
		return GuestName()
	}
	return truncate(name, maxNameLen)
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
	}
	sname := msg.SessionName
	if sname == "" {
		sname = "Asteroid Field"
	}
	sess := c.hub.sessions.CreateSession(truncate(sname, maxSessionNameLen))
	if sess == nil {
		c.sendError("too many active sessions")
		return
	}
	c.SendJSON(Envelope{T: MsgCreated, Data: map[string]string{"sid": sess.ID}})
}

// handleJoin seats the client as pilot or spectator
func (c *Client) handleJoin(data json.RawMessage, role clientRole) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SessionID)
	if sess == nil {
		c.sendError("session not found")
		return
	}
	c.detach()

	switch role {
	case rolePilot:
		if _, err := sess.Game.Join(c.id, c.pilotName(msg.Name), c.authPilotID, c); err != nil {
			c.sendError(err.Error())
			return
		}
	default:
		if err := sess.Game.Watch(c.id, c); err != nil {
			c.sendError(err.Error())
			return
		}
	}
	c.role = role
	c.sessionID = sess.ID

	c.SendJSON(Envelope{T: MsgJoined, Data: map[string]string{"sid": sess.ID}})
	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
		ID:    c.id,
		Field: c.hub.sessions.cfg.Params.FieldSize,
		Pilot: role == rolePilot,
	}})
}

func (c *Client) handleInput(data json.RawMessage) {
	var msg InputMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	ev, ok := sim.ParseEvent(msg.E)
	if !ok {
		return
	}
	c.applyInput(ev)
}

// applyInput forwards an event for the pilot this client flies or controls
func (c *Client) applyInput(ev sim.Event) {
	var pilotID string
	switch c.role {
	case rolePilot:
		pilotID = c.id
	case roleController:
		pilotID = c.pilotID
	default:
		return
	}
	if sess := c.hub.sessions.GetSession(c.sessionID); sess != nil {
		sess.Game.HandleInput(pilotID, ev)
	}
}

func (c *Client) handleRestart() {
	if c.role != rolePilot {
		return
	}
	if sess := c.hub.sessions.GetSession(c.sessionID); sess != nil {
		sess.Game.Restart(c.id)
	}
}

func (c *Client) handleCheck(data json.RawMessage) {
	var msg CheckMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{SID: msg.SID}})
		return
	}
	pilot, watchers, _, _ := sess.Game.Info()
	c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{
		SID:      msg.SID,
		Exists:   true,
		Name:     sess.Name,
		Pilot:    pilot,
		Watchers: watchers,
	}})
}

// detach leaves whatever session the client is in
func (c *Client) detach() {
	if c.sessionID == "" {
		return
	}
	switch c.role {
	case roleController:
		if sess := c.hub.sessions.GetSession(c.sessionID); sess != nil {
			sess.Game.RemoveController(c)
		}
	case rolePilot, roleWatcher:
		c.hub.sessions.RemoveClient(c.sessionID, c.id)
	}
	c.sessionID = ""
	c.pilotID = ""
	c.role = roleNone
}

func (c *Client) handleControl(data json.RawMessage) {
	var msg ControlMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.sendError("session not found")
		return
	}
	c.detach()
	if !sess.Game.SetController(msg.PilotID, c) {
		c.sendError("pilot not found")
		return
	}
	c.role = roleController
	c.sessionID = msg.SID
	c.pilotID = msg.PilotID
	c.SendJSON(Envelope{T: MsgControlOK, Data: map[string]string{"pid": msg.PilotID}})
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		c.sendError("accounts disabled")
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.authenticated(id, msg.Username, token)
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		c.sendError("accounts disabled")
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.authenticated(id, msg.Username, token)
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		c.sendError("accounts disabled")
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.sendError("invalid token")
		return
	}
	c.authenticated(id, username, msg.Token)
}

func (c *Client) authenticated(id int64, username, token string) {
	c.authPilotID = id
	c.authUsername = username
	var best int
	if c.hub.db != nil {
		var err error
		if best, err = c.hub.db.BestScore(id); err != nil {
			log.Warn().Err(err).Int64("pilot", id).Msg("best score lookup failed")
		}
	}
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: username,
		PilotID:  id,
		Best:     best,
	}})
}

func (c *Client) handleScores(data json.RawMessage) {
	var req ScoresReq
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return
		}
	}
	scores, err := topScores(c.hub.db, req.Limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard query failed")
		c.sendError("leaderboard unavailable")
		return
	}
	c.SendJSON(Envelope{T: MsgScores, Data: scores})
}

// topScores clamps limit and tolerates a missing database
func topScores(db *DB, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = defaultScoreLimit
	}
	if limit > maxScoreLimit {
		limit = maxScoreLimit
	}
	if db == nil {
		return []ScoreEntry{}, nil
	}
	return db.TopScores(limit)
}
