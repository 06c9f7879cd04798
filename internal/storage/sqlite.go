// Package storage provides SQLite-based persistence for saved games,
// finished-game results and per-level high scores.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/blocksmash/internal/save"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// GameResult represents one finished game recorded for the scoreboard.
type GameResult struct {
	ID        int64
	Score     int
	Level     int
	Lines     int
	Perfect   int // Perfect levels achieved in the game
	Timed     bool
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saved_games (
			slot TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			version INTEGER NOT NULL,
			payload BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS game_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			perfect INTEGER NOT NULL DEFAULT 0,
			timed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_game_results_top ON game_results(score DESC);

		CREATE TABLE IF NOT EXISTS level_high_scores (
			level INTEGER PRIMARY KEY,
			score INTEGER NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// WriteSave stores a serialized session snapshot in the given slot,
// replacing any previous payload.
func (s *Store) WriteSave(ctx context.Context, slot, sessionID string, version int, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_games (slot, session_id, version, payload, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		   session_id = excluded.session_id,
		   version = excluded.version,
		   payload = excluded.payload,
		   updated_at = CURRENT_TIMESTAMP`,
		slot, sessionID, version, payload,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write save: %w", err)
	}
	return nil
}

// ReadSave retrieves the payload stored in the given slot.
func (s *Store) ReadSave(ctx context.Context, slot string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM saved_games WHERE slot = ?", slot,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot read save: %w", err)
	}
	return payload, true, nil
}

// SaveSessionID returns the session identity of the save in the given slot.
func (s *Store) SaveSessionID(ctx context.Context, slot string) (string, bool, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx,
		"SELECT session_id FROM saved_games WHERE slot = ?", slot,
	).Scan(&sessionID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot query save: %w", err)
	}
	return sessionID, true, nil
}

// DeleteSave removes the save in the given slot.
func (s *Store) DeleteSave(ctx context.Context, slot string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM saved_games WHERE slot = ?", slot)
	if err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}
	return nil
}

// ListSaves returns every occupied save slot with its metadata.
func (s *Store) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT slot, session_id, version, updated_at FROM saved_games ORDER BY slot",
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list saves: %w", err)
	}
	defer rows.Close()

	var infos []SaveInfo
	for rows.Next() {
		var info SaveInfo
		var updatedAt any
		if err := rows.Scan(&info.Slot, &info.SessionID, &info.Version, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.UpdatedAt = parseTimestamp(updatedAt)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return infos, nil
}

// SaveInfo describes one occupied save slot.
type SaveInfo struct {
	Slot      string
	SessionID string
	Version   int
	UpdatedAt time.Time
}

// SaveResult records a finished game for the scoreboard.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(result GameResult) (int64, error) {
	timed := 0
	if result.Timed {
		timed = 1
	}
	res, err := s.db.Exec(
		"INSERT INTO game_results (score, level, lines, perfect, timed) VALUES (?, ?, ?, ?, ?)",
		result.Score, result.Level, result.Lines, result.Perfect, timed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopResults retrieves the top N finished games ordered by score descending.
func (s *Store) TopResults(limit int) ([]GameResult, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, score, level, lines, perfect, timed, created_at
		 FROM game_results
		 ORDER BY score DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		var r GameResult
		var timed int
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Score, &r.Level, &r.Lines, &r.Perfect, &timed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Timed = timed != 0
		r.CreatedAt = parseTimestamp(createdAt)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// HighScore returns the highest recorded score across all finished games.
// Returns 0 if no results exist.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM game_results").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// LevelHighScore returns the stored best for a level, 0 if none.
// Read for display only; never gameplay-affecting.
func (s *Store) LevelHighScore(level int) (int, error) {
	var score int
	err := s.db.QueryRow(
		"SELECT score FROM level_high_scores WHERE level = ?", level,
	).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query level high score: %w", err)
	}
	return score, nil
}

// RecordLevelScore stores the score for a level if it beats the stored best.
func (s *Store) RecordLevelScore(level, score int) error {
	_, err := s.db.Exec(
		`INSERT INTO level_high_scores (level, score) VALUES (?, ?)
		 ON CONFLICT(level) DO UPDATE SET score = excluded.score
		 WHERE excluded.score > level_high_scores.score`,
		level, score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record level score: %w", err)
	}
	return nil
}

// parseTimestamp handles both time.Time and string datetime values.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Ensure Store implements the persistence coordinator's contract.
var _ save.Store = (*Store)(nil)
