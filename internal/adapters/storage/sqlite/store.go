// Package sqlite persiste el snapshot en una tabla state(bucket, payload) de SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // driver sqlite en Go puro

	"medication-reminder/internal/adapters/storage/bucket"
	"medication-reminder/internal/ports/persistence"
)

const DefaultPath = "medication_data.db"

type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context) (persistence.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return persistence.Snapshot{}, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	raw := map[string][]byte{}
	for rows.Next() {
		var (
			name    string
			payload []byte
		)
		if err := rows.Scan(&name, &payload); err != nil {
			return persistence.Snapshot{}, fmt.Errorf("scan: %w", err)
		}
		raw[name] = payload
	}
	if err := rows.Err(); err != nil {
		return persistence.Snapshot{}, fmt.Errorf("iterate state: %w", err)
	}
	return bucket.Decode(raw)
}

// Save reescribe todos los buckets en una sola transacción.
func (s *Store) Save(ctx context.Context, snap persistence.Snapshot) (retErr error) {
	payloads, err := bucket.Encode(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, name := range bucket.Names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
			name, payloads[name],
		); err != nil {
			return fmt.Errorf("upsert %s: %w", name, err)
		}
	}
	return tx.Commit()
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }
