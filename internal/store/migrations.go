package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates the initial tables.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sleep_days (
			date           TEXT PRIMARY KEY,
			has_data       BOOLEAN NOT NULL,
			sleep_finished BOOLEAN NOT NULL DEFAULT 0,
			data           TEXT,
			sends          TEXT NOT NULL DEFAULT '{}',
			updated_at     TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS queue_items (
			date         TEXT NOT NULL,
			channel      TEXT NOT NULL,
			attempts     INTEGER NOT NULL DEFAULT 0,
			last_attempt TEXT,
			created_at   TEXT NOT NULL,
			PRIMARY KEY (date, channel)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_queue_items_date ON queue_items(date)`,

		`DELETE FROM schema_version`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return err
		}
	}

	if _, err := db.conn.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return nil
}
