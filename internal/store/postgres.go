package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS units (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    main_topic TEXT NOT NULL,
    short_summary TEXT NOT NULL,
    fields JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_units_kind ON units(kind, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_units_created ON units(created_at DESC);
`

// Postgres stores units in PostgreSQL through a pgx pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// OpenPostgres connects to connString, pings the server and migrates.
func OpenPostgres(ctx context.Context, connString string) (*Postgres, error) {
	if connString == "" {
		return nil, errors.New("store: postgres connection string is required")
	}
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: migrate postgres: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

// Save inserts u.
func (p *Postgres) Save(ctx context.Context, u *Unit) error {
	if err := validate(u); err != nil {
		return err
	}
	fields, err := json.Marshal(u.Fields)
	if err != nil {
		return fmt.Errorf("store: encode fields: %w", err)
	}
	_, err = p.Pool.Exec(ctx,
		`INSERT INTO units (id, kind, slug, title, main_topic, short_summary, fields, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Kind, u.Slug, u.Title, u.MainTopic, u.ShortSummary, fields, u.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("store: insert unit: %w", err)
	}
	return nil
}

const postgresColumns = `id, kind, slug, title, main_topic, short_summary, fields, created_at`

// Get returns the unit with id, scoped to kind.
func (p *Postgres) Get(ctx context.Context, kind, id string) (*Unit, error) {
	row := p.Pool.QueryRow(ctx,
		`SELECT `+postgresColumns+` FROM units WHERE kind = $1 AND id = $2`, kind, id)
	u, err := scanPostgres(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// List returns the newest units of kind.
func (p *Postgres) List(ctx context.Context, kind string, limit int) ([]Unit, error) {
	rows, err := p.Pool.Query(ctx,
		`SELECT `+postgresColumns+` FROM units WHERE kind = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		kind, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("store: list units: %w", err)
	}
	return collectPostgres(rows)
}

// Recent returns the newest units across all kinds.
func (p *Postgres) Recent(ctx context.Context, limit int) ([]Unit, error) {
	rows, err := p.Pool.Query(ctx,
		`SELECT `+postgresColumns+` FROM units ORDER BY created_at DESC, id DESC LIMIT $1`,
		clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("store: recent units: %w", err)
	}
	return collectPostgres(rows)
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}

func scanPostgres(row pgx.Row) (*Unit, error) {
	var (
		u      Unit
		fields []byte
	)
	if err := row.Scan(&u.ID, &u.Kind, &u.Slug, &u.Title, &u.MainTopic, &u.ShortSummary, &fields, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("store: scan unit: %w", err)
	}
	if err := json.Unmarshal(fields, &u.Fields); err != nil {
		return nil, fmt.Errorf("store: decode fields of %s: %w", u.ID, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func collectPostgres(rows pgx.Rows) ([]Unit, error) {
	defer rows.Close()

	var units []Unit
	for rows.Next() {
		u, err := scanPostgres(rows)
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
