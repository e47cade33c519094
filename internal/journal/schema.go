package journal

import (
	"database/sql"
	"fmt"
)

type migration struct {
	Version int
	Name    string
	UpSQL   string
}

var migrations = []migration{
	{Version: 1, Name: "001_entries", UpSQL: `
CREATE TABLE IF NOT EXISTS entries(
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	type TEXT NOT NULL,
	business_id TEXT,
	entity_kind TEXT NOT NULL,
	entity_id TEXT,
	payload_json TEXT NOT NULL
);`},
	{Version: 2, Name: "002_entries_business_idx", UpSQL: `
CREATE INDEX IF NOT EXISTS entries_business_idx ON entries(business_id, id);`},
}

// Migrate brings the journal schema up to date. The applied step is tracked
// in SQLite's user_version header, so each step runs exactly once per file.
func Migrate(db *sql.DB) error {
	var applied int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&applied); err != nil {
		return fmt.Errorf("read journal version: %w", err)
	}
	for _, m := range migrations {
		if m.Version <= applied {
			continue
		}
		if err := applyStep(db, m); err != nil {
			return err
		}
		applied = m.Version
	}
	return nil
}

// applyStep runs one step and bumps user_version in the same transaction.
func applyStep(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(m.UpSQL); err != nil {
		return fmt.Errorf("journal step %s: %w", m.Name, err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, m.Version)); err != nil {
		return fmt.Errorf("journal step %s: set version: %w", m.Name, err)
	}
	return tx.Commit()
}

// Version reports the schema step recorded in the journal file.
func (j *Journal) Version() (int, error) {
	var v int
	err := j.DB.QueryRow(`PRAGMA user_version`).Scan(&v)
	return v, err
}
