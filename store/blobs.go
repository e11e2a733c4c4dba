package store

import (
	"context"
	"database/sql"
	"sync"
	"time"
)

const defaultTimeout = 5 * time.Second

// Blobs is the raw named-blob area underneath the typed store: a string
// key-value surface that outlives process restarts.
type Blobs interface {
	Get(name string) (string, bool, error)
	Set(name, value string) error
}

type sqliteBlobs struct {
	db *sql.DB
}

// NewSQLiteBlobs returns a Blobs backed by an opened consentd database.
func NewSQLiteBlobs(db *sql.DB) Blobs {
	return &sqliteBlobs{db: db}
}

func (s *sqliteBlobs) Get(name string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE name = ?`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *sqliteBlobs) Set(name, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		name, value)
	return err
}

// MemoryBlobs is an in-memory Blobs useful for tests. It is not intended
// for production use.
type MemoryBlobs struct {
	mu    sync.Mutex
	blobs map[string]string
}

func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{blobs: map[string]string{}}
}

func (m *MemoryBlobs) Get(name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.blobs[name]
	return value, ok, nil
}

func (m *MemoryBlobs) Set(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = value
	return nil
}
