package main

import (
	"database/sql"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Event types recorded in the events table
const (
	EvtSessionStart      = "session_start"
	EvtSessionEnd        = "session_end"
	EvtAsteroidDestroyed = "asteroid_destroyed"
	EvtGameOver          = "game_over"
)

const (
	analyticsBuffer     = 1024
	analyticsBatchSize  = 50
	analyticsFlushEvery = 5 * time.Second
)

// AnalyticsEvent is a single trackable event
type AnalyticsEvent struct {
	Type      string
	PilotID   int64
	SessionID string
	Data      string // JSON, optional
	Timestamp time.Time
}

// Analytics batches events and writes them in the background
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewAnalytics starts the background writer. A nil db discards events.
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, analyticsBuffer),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event without blocking the caller
func (a *Analytics) Track(evtType string, pilotID int64, sessionID, data string) {
	select {
	case a.events <- AnalyticsEvent{
		Type:      evtType,
		PilotID:   pilotID,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}:
	case <-a.stop:
	default:
		// full: drop rather than stall a game loop
	}
}

// Stop flushes pending events and waits for the writer to exit
func (a *Analytics) Stop() {
	a.once.Do(func() { close(a.stop) })
	a.wg.Wait()
}

func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, 64)
	ticker := time.NewTicker(analyticsFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= analyticsBatchSize {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					a.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch in one transaction
func (a *Analytics) flush(events []AnalyticsEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		log.Error().Err(err).Msg("analytics: begin tx")
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO events (event_type, pilot_id, session_id, data, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		log.Error().Err(err).Msg("analytics: prepare")
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		pid := sql.NullInt64{Int64: evt.PilotID, Valid: evt.PilotID > 0}
		sid := sql.NullString{String: evt.SessionID, Valid: evt.SessionID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		if _, err := stmt.Exec(evt.Type, pid, sid, data, evt.Timestamp.Format(time.RFC3339)); err != nil {
			log.Warn().Err(err).Str("type", evt.Type).Msg("analytics: insert")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Int("events", len(events)).Msg("analytics: commit")
	}
}

// EventCounts returns counts of each event type for the last N days
func (a *Analytics) EventCounts(days int) (map[string]int, error) {
	result := make(map[string]int)
	if a == nil || a.db == nil {
		return result, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM events
		WHERE created_at >= date('now', '-' || ? || ' days')
		GROUP BY event_type
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			evtType string
			count   int
		)
		if err := rows.Scan(&evtType, &count); err != nil {
			return nil, err
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// DailyGames returns finished games per day for the last N days
func (a *Analytics) DailyGames(days int) ([]DayCount, error) {
	if a == nil || a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT date(created_at) AS day, COUNT(*)
		FROM events
		WHERE event_type = ? AND created_at >= date('now', '-' || ? || ' days')
		GROUP BY day ORDER BY day
	`, EvtGameOver, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DayCount
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, err
		}
		result = append(result, dc)
	}
	return result, rows.Err()
}

// DayCount holds a count for a specific day
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}
