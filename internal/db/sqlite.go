// Package db provides storage implementations of roster.Repository.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/rota/internal/roster"
)

// SQLite implements roster.Repository using SQLite.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Writes arrive concurrently from the reconciler; one connection keeps
	// SQLite from reporting SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// QueryRange returns every assignment whose date falls in [start, end],
// compared by calendar date. Rows come back in insertion order per slot.
func (s *SQLite) QueryRange(ctx context.Context, start, end time.Time) ([]roster.Record, error) {
	query := `
		SELECT slot_date, hour, user_id, user_name, notes
		FROM slot_assignments
		WHERE slot_date >= ? AND slot_date <= ?
		ORDER BY slot_date, hour, rowid
	`

	rows, err := s.db.QueryContext(ctx, query,
		roster.DateKeyOf(start).String(),
		roster.DateKeyOf(end).String(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []roster.Record
	for rows.Next() {
		var (
			r    roster.Record
			date string
		)
		if err := rows.Scan(&date, &r.Hour, &r.UserID, &r.UserName, &r.Notes); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		r.Date, err = parseDateKey(date)
		if err != nil {
			return nil, fmt.Errorf("parsing slot date: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}

	return records, nil
}

// WriteSlotAssignment upserts one assignment. Writing the same key twice
// leaves a single row carrying the latest name and notes.
func (s *SQLite) WriteSlotAssignment(ctx context.Context, r roster.Record) error {
	if err := checkRef(r.Ref()); err != nil {
		return err
	}

	query := `
		INSERT INTO slot_assignments (slot_date, hour, user_id, user_name, notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (slot_date, hour, user_id) DO UPDATE SET
			user_name  = excluded.user_name,
			notes      = excluded.notes,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		r.Date.String(),
		r.Hour,
		r.UserID,
		r.UserName,
		r.Notes,
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing assignment %s: %w", r.Ref(), err)
	}
	return nil
}

// DeleteSlotAssignment removes one assignment. Deleting an absent row is
// not an error.
func (s *SQLite) DeleteSlotAssignment(ctx context.Context, ref roster.SlotRef) error {
	if err := checkRef(ref); err != nil {
		return err
	}

	query := `DELETE FROM slot_assignments WHERE slot_date = ? AND hour = ? AND user_id = ?`

	if _, err := s.db.ExecContext(ctx, query, ref.Date.String(), ref.Hour, ref.UserID); err != nil {
		return fmt.Errorf("deleting assignment %s: %w", ref, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func checkRef(ref roster.SlotRef) error {
	if !roster.ValidHour(ref.Hour) {
		return fmt.Errorf("%w: %d", roster.ErrInvalidHour, ref.Hour)
	}
	if ref.UserID == "" {
		return roster.ErrMissingUserID
	}
	if _, err := roster.ParseDateKey(ref.Date.String()); err != nil {
		return err
	}
	return nil
}

// parseDateKey accepts the date-only text we store as well as the
// timestamp form SQLite may hand back for DATE columns.
func parseDateKey(s string) (roster.DateKey, error) {
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10]
	}
	return roster.ParseDateKey(s)
}
