// ABOUTME: SQLite schema for health_entries, goals, users and health_insights.
// ABOUTME: Migrations are numbered and tracked in PRAGMA user_version.
package storage

import "fmt"

// schemaMigrations holds one statement batch per schema version, starting at 1.
var schemaMigrations = []string{
	// 1: initial tables
	`
	CREATE TABLE IF NOT EXISTS health_entries (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL UNIQUE,
		weight REAL,
		bp_systolic INTEGER,
		bp_diastolic INTEGER,
		heart_rate INTEGER,
		sleep_hours REAL,
		exercise_minutes INTEGER,
		mood TEXT,
		symptoms TEXT,
		notes TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		goal_type TEXT NOT NULL,
		target_value REAL NOT NULL,
		current_value REAL NOT NULL DEFAULT 0,
		target_date TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_date TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	-- Reserved for multi-user support; nothing reads or writes it yet.
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS health_insights (
		id TEXT PRIMARY KEY,
		insight_type TEXT NOT NULL,
		content TEXT NOT NULL,
		confidence_score REAL,
		date_generated TEXT NOT NULL,
		data_period_start TEXT,
		data_period_end TEXT,
		created_at DATETIME NOT NULL
	);
	`,
	// 2: lookup indexes
	`
	CREATE INDEX IF NOT EXISTS idx_goals_status ON goals(status);
	CREATE INDEX IF NOT EXISTS idx_insights_generated ON health_insights(date_generated DESC);
	`,
}

// schemaVersion is the version a fully migrated database reports.
var schemaVersion = len(schemaMigrations)

// migrate applies every migration newer than the stored user_version.
func (d *DB) migrate() error {
	var version int
	if err := d.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	for v := version; v < schemaVersion; v++ {
		tx, err := d.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(schemaMigrations[v]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
