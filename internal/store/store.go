// Package store persists accepted units. SQLite (modernc.org/sqlite) and
// PostgreSQL (pgx) backends share the Store interface.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-twennie/pkg/markup"
	"github.com/goliatone/go-twennie/pkg/unit"
	"github.com/goliatone/go-twennie/pkg/validation"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultListLimit caps List and Recent when limit is not positive.
const DefaultListLimit = 50

// ErrNotFound is returned when a unit does not exist.
var ErrNotFound = errors.New("store: unit not found")

// Unit is an accepted submission.
type Unit struct {
	ID           string         `json:"id"`
	Kind         string         `json:"kind"`
	Slug         string         `json:"slug"`
	Title        string         `json:"title"`
	MainTopic    string         `json:"main_topic"`
	ShortSummary string         `json:"short_summary"`
	Fields       map[string]any `json:"fields"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Store persists units.
type Store interface {
	Save(ctx context.Context, u *Unit) error
	Get(ctx context.Context, kind, id string) (*Unit, error)
	List(ctx context.Context, kind string, limit int) ([]Unit, error)
	Recent(ctx context.Context, limit int) ([]Unit, error)
	Close() error
}

// Open selects a backend by driver name.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite, "":
		return OpenSQLite(ctx, dsn)
	case DriverPostgres, "postgresql", "pgx":
		return OpenPostgres(ctx, dsn)
	}
	return nil, fmt.Errorf("store: unsupported driver %q", driver)
}

// NewUnit builds a Unit from a normalised submission that passed validation.
// Plain text fields are stripped of markup; markdown fields are kept as
// written and sanitised when rendered.
func NewUnit(schema unit.Schema, sub validation.Submission) *Unit {
	fields := Sanitize(schema, sub)
	title := fields.Text("title")
	return &Unit{
		ID:           uuid.NewString(),
		Kind:         schema.Kind,
		Slug:         Slug(title),
		Title:        title,
		MainTopic:    fields.Text("main_topic"),
		ShortSummary: fields.Text("short_summary"),
		Fields:       map[string]any(fields),
		CreatedAt:    time.Now().UTC(),
	}
}

// Sanitize returns a copy of sub with every non-markdown text value passed
// through markup.StripTags.
func Sanitize(schema unit.Schema, sub validation.Submission) validation.Submission {
	out := sub.Clone()
	for _, field := range schema.Fields {
		if field.Type == unit.FieldTypeMarkdown {
			continue
		}
		value, ok := out[field.Name]
		if !ok {
			continue
		}
		out[field.Name] = stripValue(value)
	}
	return out
}

func stripValue(value any) any {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(markup.StripTags(v))
	case []string:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = strings.TrimSpace(markup.StripTags(item))
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = stripValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = stripValue(item)
		}
		return out
	default:
		return value
	}
}

func validate(u *Unit) error {
	if u == nil {
		return errors.New("store: unit is nil")
	}
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("store: unit id is required")
	}
	if strings.TrimSpace(u.Kind) == "" {
		return errors.New("store: unit kind is required")
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.Slug == "" {
		u.Slug = Slug(u.Title)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
