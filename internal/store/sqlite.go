package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS units (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    main_topic TEXT NOT NULL,
    short_summary TEXT NOT NULL,
    fields TEXT NOT NULL DEFAULT '{}',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_units_kind ON units(kind, created_at);
CREATE INDEX IF NOT EXISTS idx_units_created ON units(created_at);
`

// SQLite stores units in a SQLite database.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database at path and runs migrations.
// ":memory:" or an empty path opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	memory := path == "" || strings.HasPrefix(path, ":memory:")

	dsn := ":memory:?_pragma=foreign_keys(1)"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: create database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if memory {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate sqlite: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Save inserts u.
func (s *SQLite) Save(ctx context.Context, u *Unit) error {
	if err := validate(u); err != nil {
		return err
	}
	fields, err := json.Marshal(u.Fields)
	if err != nil {
		return fmt.Errorf("store: encode fields: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO units (id, kind, slug, title, main_topic, short_summary, fields, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Kind, u.Slug, u.Title, u.MainTopic, u.ShortSummary, string(fields),
		u.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("store: insert unit: %w", err)
	}
	return nil
}

const sqliteColumns = `id, kind, slug, title, main_topic, short_summary, fields, created_at`

// Get returns the unit with id, scoped to kind.
func (s *SQLite) Get(ctx context.Context, kind, id string) (*Unit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteColumns+` FROM units WHERE kind = ? AND id = ?`, kind, id)
	u, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// List returns the newest units of kind.
func (s *SQLite) List(ctx context.Context, kind string, limit int) ([]Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteColumns+` FROM units WHERE kind = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		kind, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("store: list units: %w", err)
	}
	return collectSQLite(rows)
}

// Recent returns the newest units across all kinds.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteColumns+` FROM units ORDER BY created_at DESC, id DESC LIMIT ?`,
		clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("store: recent units: %w", err)
	}
	return collectSQLite(rows)
}

// Close releases the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row scanner) (*Unit, error) {
	var (
		u         Unit
		fields    string
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.Kind, &u.Slug, &u.Title, &u.MainTopic, &u.ShortSummary, &fields, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("store: scan unit: %w", err)
	}
	if err := json.Unmarshal([]byte(fields), &u.Fields); err != nil {
		return nil, fmt.Errorf("store: decode fields of %s: %w", u.ID, err)
	}
	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("store: parse created_at of %s: %w", u.ID, err)
	}
	u.CreatedAt = created
	return &u, nil
}

func collectSQLite(rows *sql.Rows) ([]Unit, error) {
	defer rows.Close()

	var units []Unit
	for rows.Next() {
		u, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate units: %w", err)
	}
	return units, nil
}
