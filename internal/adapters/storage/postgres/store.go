package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"medication-reminder/internal/adapters/storage/bucket"
	"medication-reminder/internal/ports/persistence"
)

// Store guarda el snapshot en state(bucket TEXT PRIMARY KEY, payload JSONB).
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open conecta vía pgx (database/sql), verifica la conexión y crea la tabla.
// Un solo escritor (la sesión): el pool es chico.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := NewStore(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// EnsureSchema crea la tabla si no existe.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return fmt.Errorf("ensure state table: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (persistence.Snapshot, error) {
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

func (s *Store) Save(ctx context.Context, snap persistence.Snapshot) (retErr error) {
	payloads, err := bucket.Encode(snap)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, name := range bucket.Names {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO state (bucket, payload) VALUES ($1, $2::jsonb)
			ON CONFLICT (bucket) DO UPDATE SET payload = EXCLUDED.payload
		`, name, string(payloads[name])); err != nil {
			return fmt.Errorf("upsert %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
