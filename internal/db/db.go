package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

var dbInitialized bool

// dbPath overrides the default location when set.
var dbPath string

// SetPath sets the database file used by GetDB. It has no effect once the
// connection is open.
func SetPath(path string) {
	dbPath = path
}

// GetDB returns the database connection, initializing if needed
func GetDB() (*sql.DB, error) {
	if db != nil {
		return db, nil
	}

	path, err := GetDBPath()
	if err != nil {
		return nil, err
	}

	// Ensure the parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := Open(path)
	if err != nil {
		return nil, err
	}
	db = conn

	// Run migrations on first connection (but avoid recursion)
	if !dbInitialized {
		dbInitialized = true
		if err := InitSchema(db); err != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return db, nil
}

// Open opens a SQLite database with foreign keys enabled.
// A single connection keeps ":memory:" databases and PRAGMAs consistent.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return conn, nil
}

// Close closes the database connection
func Close() error {
	if db != nil {
		err := db.Close()
		db = nil
		dbInitialized = false
		return err
	}
	return nil
}

// GetDBPath returns the path to the database file
func GetDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".auditcheck", "auditcheck.db"), nil
}
