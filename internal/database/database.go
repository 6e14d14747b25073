package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the default path of the city database
func DBPath() string {
	return filepath.Join("data", "travel-terminal.db")
}

// Open opens (creating if needed) the SQLite database at dbPath and makes
// sure the schema exists. ":memory:" is accepted for tests.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else {
		_, err = db.Exec(`
			PRAGMA journal_mode=WAL;
			PRAGMA synchronous=NORMAL;
			PRAGMA busy_timeout=5000;
		`)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragmas: %w", err)
		}
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the cities table if it does not exist yet.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cities (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			city_name TEXT NOT NULL,
			country TEXT NOT NULL DEFAULT '',
			emoji TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			lat REAL NOT NULL,
			lng REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating cities table: %w", err)
	}
	return nil
}
