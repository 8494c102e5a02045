package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite score ledger
type DB struct {
	conn *sql.DB
}

// PilotRow represents an account
type PilotRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// ScoreRow is one finished game. PilotID is 0 for guests.
type ScoreRow struct {
	ID        int64
	PilotID   int64
	Name      string
	SessionID string
	Score     int
	Ticks     uint64
	CreatedAt time.Time
}

// ScoreEntry represents one row in the leaderboard
type ScoreEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Ticks uint64 `json:"ticks"`
	When  string `json:"when"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	// WAL lets the analytics writer and score inserts overlap with reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pilots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pilot_id INTEGER REFERENCES pilots(id),
		name TEXT NOT NULL DEFAULT '',
		session_id TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL DEFAULT 0,
		ticks INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		pilot_id INTEGER,
		session_id TEXT,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC);
	CREATE INDEX IF NOT EXISTS idx_scores_pilot ON scores(pilot_id);
	CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type, created_at);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		log.Error().Err(err).Msg("db migration failed")
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// CreatePilot creates a new account (returns pilot ID)
func (db *DB) CreatePilot(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO pilots (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetPilotByUsername returns an account by username, or nil
func (db *DB) GetPilotByUsername(username string) (*PilotRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM pilots WHERE username = ?",
		username,
	)
	p := &PilotRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM pilots WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// GetSetting returns a stored setting, or "" when unset
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Warn().Err(err).Str("key", key).Msg("read setting failed")
	}
	return v
}

// SetSetting stores or replaces a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// RecordScore stores a finished game and returns its ID
func (db *DB) RecordScore(s ScoreRow) (int64, error) {
	pid := sql.NullInt64{Int64: s.PilotID, Valid: s.PilotID > 0}
	res, err := db.conn.Exec(
		"INSERT INTO scores (pilot_id, name, session_id, score, ticks) VALUES (?, ?, ?, ?, ?)",
		pid, s.Name, s.SessionID, s.Score, int64(s.Ticks),
	)
	if err != nil {
		return 0, fmt.Errorf("recording score: %w", err)
	}
	return res.LastInsertId()
}

// TopScores returns the best games, highest first; ties go to the earlier game
func (db *DB) TopScores(limit int) ([]ScoreEntry, error) {
	rows, err := db.conn.Query(`
		SELECT COALESCE(p.username, s.name), s.score, s.ticks, s.created_at
		FROM scores s LEFT JOIN pilots p ON p.id = s.pilot_id
		ORDER BY s.score DESC, s.id ASC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]ScoreEntry, 0, limit)
	rank := 1
	for rows.Next() {
		var (
			e     ScoreEntry
			ticks int64
			when  time.Time
		)
		if err := rows.Scan(&e.Name, &e.Score, &ticks, &when); err != nil {
			return nil, err
		}
		e.Ticks = uint64(ticks)
		e.When = when.UTC().Format(time.RFC3339)
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// BestScore returns an account's highest score, 0 if it has none
func (db *DB) BestScore(pilotID int64) (int, error) {
	var best sql.NullInt64
	err := db.conn.QueryRow("SELECT MAX(score) FROM scores WHERE pilot_id = ?", pilotID).Scan(&best)
	return int(best.Int64), err
}
