package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const maxSessions = 100

// SessionIdleTimeout is how long a session may sit with no clients before
// it is reaped
var SessionIdleTimeout = 2 * time.Minute

// Session represents a game session that clients can join
type Session struct {
	ID   string
	Name string
	Game *Game
}

// SessionManager handles creation and lookup of sessions. It also observes
// every game to feed the score ledger, analytics and metrics.
type SessionManager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	cfg       GameConfig
	db        *DB
	analytics *Analytics
	metrics   *Metrics
}

// NewSessionManager creates a new SessionManager. db, analytics and metrics
// may be nil.
func NewSessionManager(cfg GameConfig, db *DB, analytics *Analytics, metrics *Metrics) *SessionManager {
	return &SessionManager{
		sessions:  make(map[string]*Session),
		cfg:       cfg,
		db:        db,
		analytics: analytics,
		metrics:   metrics,
	}
}

// CreateSession creates a new game session. Returns nil if limit reached.
func (sm *SessionManager) CreateSession(name string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	id := GenerateUUID()
	game := NewGame(id, sm.cfg, sm)
	sess := &Session{
		ID:   id,
		Name: name,
		Game: game,
	}
	sm.sessions[id] = sess
	go game.Run()
	sm.scheduleReap(id)
	sm.track(EvtSessionStart, 0, id, nil)
	log.Info().Str("sid", id).Str("name", name).Msg("session created")
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// RemoveClient removes a pilot or watcher from a session
func (sm *SessionManager) RemoveClient(sessionID, clientID string) {
	sess := sm.GetSession(sessionID)
	if sess == nil {
		return
	}
	sess.Game.RemoveClient(clientID)
	if sess.Game.ClientCount() == 0 {
		sm.scheduleReap(sessionID)
	}
}

func (sm *SessionManager) scheduleReap(id string) {
	time.AfterFunc(SessionIdleTimeout, func() { sm.reapIfIdle(id) })
}

// reapIfIdle stops and forgets a session that still has no clients
func (sm *SessionManager) reapIfIdle(id string) {
	sm.mu.Lock()
	sess, ok := sm.sessions[id]
	if !ok || sess.Game.ClientCount() > 0 {
		sm.mu.Unlock()
		return
	}
	delete(sm.sessions, id)
	sm.mu.Unlock()

	sess.Game.Stop()
	sm.track(EvtSessionEnd, 0, id, nil)
	log.Info().Str("sid", id).Msg("session reaped")
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		pilot, watchers, score, over := sess.Game.Info()
		list = append(list, SessionInfo{
			ID:       sess.ID,
			Name:     sess.Name,
			Pilot:    pilot,
			Watchers: watchers,
			Score:    score,
			Over:     over,
		})
	}
	return list
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func (sm *SessionManager) track(evtType string, pilotID int64, sid string, data map[string]interface{}) {
	if sm.analytics == nil {
		return
	}
	var payload string
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			payload = string(b)
		}
	}
	sm.analytics.Track(evtType, pilotID, sid, payload)
}

// Destroyed implements GameObserver
func (sm *SessionManager) Destroyed(sid string, hits int) {
	sm.metrics.AsteroidsDestroyed(hits)
	sm.track(EvtAsteroidDestroyed, 0, sid, map[string]interface{}{"hits": hits})
}

// Over implements GameObserver. The score is written off the game goroutine.
func (sm *SessionManager) Over(sid string, res GameResult) {
	sm.metrics.GameOver(res.Reason)
	sm.track(EvtGameOver, res.Pilot.AuthPlayerID, sid, map[string]interface{}{
		"score":  res.Score,
		"ticks":  res.Ticks,
		"reason": res.Reason,
	})
	log.Info().Str("sid", sid).Str("pilot", res.Pilot.Name).Int("score", res.Score).
		Str("reason", res.Reason).Msg("game over")

	if sm.db == nil {
		return
	}
	row := ScoreRow{
		PilotID:   res.Pilot.AuthPlayerID,
		Name:      res.Pilot.Name,
		SessionID: sid,
		Score:     res.Score,
		Ticks:     res.Ticks,
	}
	go func() {
		if _, err := sm.db.RecordScore(row); err != nil {
			log.Error().Err(err).Str("sid", sid).Msg("record score failed")
		}
	}()
}

// Ticked implements GameObserver
func (sm *SessionManager) Ticked(d time.Duration) {
	sm.metrics.ObserveTick(d)
}

// StopAll halts every running game; used on shutdown
func (sm *SessionManager) StopAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for id, sess := range sm.sessions {
		sess.Game.Stop()
		delete(sm.sessions, id)
	}
}
