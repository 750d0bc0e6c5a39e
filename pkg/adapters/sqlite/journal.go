// Package sqlite keeps the booking journal in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/charter/pkg/domain"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS bookings (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    TEXT    NOT NULL,
	boat       TEXT    NOT NULL,
	draft      TEXT    NOT NULL,
	created_at INTEGER NOT NULL
)`

// Journal implements ports.Journal.
type Journal struct {
	db *sql.DB
}

// New wraps an open database. The caller runs Migrate before use.
func New(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Open opens (or creates) the database file and applies the schema.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	j := New(db)
	if err := j.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Migrate creates the bookings table if it does not exist.
func (j *Journal) Migrate(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}
	return nil
}

// Record appends a booking and returns it with its ID.
func (j *Journal) Record(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	draft, err := json.Marshal(b.Draft)
	if err != nil {
		return b, fmt.Errorf("marshal draft: %w", err)
	}

	res, err := j.db.ExecContext(ctx,
		`INSERT INTO bookings (user_id, boat, draft, created_at) VALUES (?, ?, ?, ?)`,
		b.UserID, b.Draft.Boat, string(draft), b.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return b, fmt.Errorf("insert booking: %w", err)
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return b, fmt.Errorf("booking id: %w", err)
	}
	return b, nil
}

// Recent returns up to limit bookings, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]domain.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, user_id, draft, created_at FROM bookings ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var (
			b       domain.Booking
			draft   string
			created int64
		)
		if err := rows.Scan(&b.ID, &b.UserID, &draft, &created); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if err := json.Unmarshal([]byte(draft), &b.Draft); err != nil {
			return nil, fmt.Errorf("booking %d: %w", b.ID, err)
		}
		b.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, b)
	}
	return out, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
