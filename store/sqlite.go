package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// sqlite
	_ "modernc.org/sqlite"
)

const createUserModes = `CREATE TABLE IF NOT EXISTS user_modes (
	user_id INTEGER PRIMARY KEY,
	mode TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLite keeps modes in a single table.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("empty database path")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createUserModes); err != nil {
		db.Close()

		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, userID int64) (Mode, error) {
	var mode string

	err := s.db.QueryRowContext(ctx, "SELECT mode FROM user_modes WHERE user_id = ?", userID).Scan(&mode)
	if errors.Is(err, sql.ErrNoRows) {
		return ModeUnset, nil
	}
	if err != nil {
		return ModeUnset, fmt.Errorf("get mode for %d: %w", userID, err)
	}

	if !Mode(mode).Valid() {
		return ModeUnset, nil
	}

	return Mode(mode), nil
}

func (s *SQLite) Set(ctx context.Context, userID int64, mode Mode) error {
	if err := checkMode(mode); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_modes (user_id, mode, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET mode = excluded.mode, updated_at = excluded.updated_at`,
		userID, string(mode), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("set mode for %d: %w", userID, err)
	}

	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
