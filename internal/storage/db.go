// ABOUTME: SQLite backend lifecycle: open, pragmas, default paths and close.
// ABOUTME: Pure Go via modernc.org/sqlite; the schema is versioned with PRAGMA user_version.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

// sqlitePragmas are applied to every connection before the schema is migrated.
var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

// DB is the SQLite Repository.
type DB struct {
	db     *sql.DB
	dbPath string
}

var _ Repository = (*DB)(nil)

// Open opens the health database at dbPath, creating the file, its parent
// directory and the schema as needed.
func Open(dbPath string) (*DB, error) {
	if dbPath != memoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: SQLite allows a single writer, and :memory: is per connection.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{db: sqlDB, dbPath: dbPath}
	if err := d.init(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return d, nil
}

// OpenMemory opens an empty in-memory database, for tests.
func OpenMemory() (*DB, error) {
	return Open(memoryPath)
}

func (d *DB) init() error {
	for _, pragma := range sqlitePragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	if err := d.migrate(); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	if d.dbPath != memoryPath {
		// Health data stays private to the owner.
		if err := os.Chmod(d.dbPath, 0600); err != nil {
			return fmt.Errorf("set database permissions: %w", err)
		}
	}
	return nil
}

// DataDir returns $XDG_DATA_HOME/healthdash, defaulting to ~/.local/share.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "healthdash")
}

// DefaultDBPath is the suggested SQLite location shown when DATABASE_URL is unset.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "healthdash.db")
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// Close releases the connection pool.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}
