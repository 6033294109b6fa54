// Package analytics records completed sessions.
package analytics

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// ErrNotConfigured is returned by a nil or closed store.
var ErrNotConfigured = errors.New("score store is not configured")

// Score is one recorded game_complete event.
type Score struct {
	ID         string    `json:"id"`
	Player     string    `json:"player"`
	Event      string    `json:"event"`
	Score      int       `json:"score"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Stats summarises every recorded session.
type Stats struct {
	Games   int     `json:"games"`
	Best    int     `json:"best"`
	Average float64 `json:"average"`
}

// Store persists scores in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite score store at path and creates the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record inserts one score. Missing ID and time are filled in.
func (s *Store) Record(ctx context.Context, score Score) (Score, error) {
	if err := ctx.Err(); err != nil {
		return Score{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Score{}, ErrNotConfigured
	}
	score.Player = strings.TrimSpace(score.Player)
	if score.Player == "" {
		return Score{}, fmt.Errorf("player is required")
	}
	if score.Event == "" {
		return Score{}, fmt.Errorf("event is required")
	}
	if score.Score < 0 {
		return Score{}, fmt.Errorf("score must not be negative")
	}
	if score.ID == "" {
		score.ID = uuid.NewString()
	}
	if score.RecordedAt.IsZero() {
		score.RecordedAt = time.Now()
	}
	score.RecordedAt = fromMillis(toMillis(score.RecordedAt))

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO scores (id, player, event, score, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		score.ID,
		score.Player,
		score.Event,
		score.Score,
		toMillis(score.RecordedAt),
	)
	if err != nil {
		return Score{}, fmt.Errorf("record score: %w", err)
	}
	return score, nil
}

// Top returns the best scores, highest first; earlier entries win ties.
func (s *Store) Top(ctx context.Context, limit int) ([]Score, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, player, event, score, recorded_at
		   FROM scores
		  ORDER BY score DESC, recorded_at ASC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		var sc Score
		var recordedAt int64
		if err := rows.Scan(&sc.ID, &sc.Player, &sc.Event, &sc.Score, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		sc.RecordedAt = fromMillis(recordedAt)
		scores = append(scores, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return scores, nil
}

// Stats returns totals across all recorded scores.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Stats{}, ErrNotConfigured
	}

	var st Stats
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0) FROM scores`,
	).Scan(&st.Games, &st.Best, &st.Average)
	if err != nil {
		return Stats{}, fmt.Errorf("score stats: %w", err)
	}
	return st, nil
}
