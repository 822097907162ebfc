package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS slot_assignments (
			slot_date  TEXT    NOT NULL,
			hour       INTEGER NOT NULL CHECK(hour BETWEEN 0 AND 23),
			user_id    TEXT    NOT NULL CHECK(user_id <> ''),
			user_name  TEXT    NOT NULL DEFAULT '',
			notes      TEXT    NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME,
			PRIMARY KEY (slot_date, hour, user_id)
		);

		CREATE INDEX IF NOT EXISTS idx_slot_assignments_date ON slot_assignments(slot_date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating slot_assignments table: %w", err)
	}

	return nil
}
