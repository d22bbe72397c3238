// Package db opens the finsight SQLite database and owns its schema.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

var (
	mu     sync.Mutex
	shared *sql.DB
)

// GetDB returns the process-wide connection for path, opening it on first use.
func GetDB(path string) (*sql.DB, error) {
	mu.Lock()
	defer mu.Unlock()

	if shared != nil {
		return shared, nil
	}

	conn, err := Open(path)
	if err != nil {
		return nil, err
	}
	shared = conn
	return shared, nil
}

// Open opens the database at path, creating its directory and schema.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; serializing on one connection also keeps
	// an in-memory database alive for the process.
	conn.SetMaxOpenConns(1)

	if err := InitSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return conn, nil
}

// InitSchema creates any missing tables and indexes.
func InitSchema(conn *sql.DB) error {
	if _, err := conn.Exec(SchemaSQL); err != nil {
		return err
	}
	return nil
}

// Close closes the process-wide connection.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if shared == nil {
		return nil
	}
	err := shared.Close()
	shared = nil
	return err
}
