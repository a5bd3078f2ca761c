// Package sqlite provides a SQLite-backed implementation of storage.Store.
//
// Documents are stored as JSON blobs keyed by (collection, id). Merge
// patches are applied read-modify-write inside a transaction, which makes
// each patch atomic with respect to other writers on the same document.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"checkinboard/internal/patch"
	"checkinboard/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using SQLite.
type Store struct {
	db *sql.DB

	mu         sync.Mutex
	lastCreate int64
}

// New creates a Store backed by the database at dbPath, creating parent
// directories and running migrations as needed.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Serialize writers; the board is low-traffic and SQLite locks whole files.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns every document in the collection, ordered by creation time.
func (s *Store) List(ctx context.Context, c storage.Collection) ([]storage.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, data, created_at FROM documents WHERE collection = ? ORDER BY created_at, id",
		string(c),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c, err)
	}
	defer rows.Close()

	var docs []storage.Document
	for rows.Next() {
		var (
			doc storage.Document
			raw []byte
		)
		if err := rows.Scan(&doc.ID, &raw, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s document: %w", c, err)
		}
		if err := json.Unmarshal(raw, &doc.Data); err != nil {
			return nil, fmt.Errorf("failed to decode %s document %s: %w", c, doc.ID, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s documents: %w", c, err)
	}
	return docs, nil
}

// Get retrieves one document by id.
func (s *Store) Get(ctx context.Context, c storage.Collection, id string) (storage.Document, error) {
	doc := storage.Document{ID: id}
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data, created_at FROM documents WHERE collection = ? AND id = ?",
		string(c), id,
	).Scan(&raw, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return storage.Document{}, fmt.Errorf("%w: %s/%s", storage.ErrNotFound, c, id)
	}
	if err != nil {
		return storage.Document{}, fmt.Errorf("failed to get %s/%s: %w", c, id, err)
	}
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return storage.Document{}, fmt.Errorf("failed to decode %s/%s: %w", c, id, err)
	}
	return doc, nil
}

// Create persists a new document with a store-assigned id.
func (s *Store) Create(ctx context.Context, c storage.Collection, fields map[string]any) (string, error) {
	id := uuid.New().String()
	now := s.createStamp()

	if fields == nil {
		fields = map[string]any{}
	}
	if _, ok := fields["createdAt"]; !ok {
		fields["createdAt"] = now
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s document: %w", c, err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, data, created_at) VALUES (?, ?, ?, ?)",
		string(c), id, raw, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert %s document: %w", c, err)
	}
	return id, nil
}

// createStamp returns a strictly increasing millisecond timestamp, so
// documents created back-to-back keep their creation order even when the
// clock reads the same millisecond twice. Milliseconds stay exactly
// representable through JSON number round-trips; nanoseconds would not.
func (s *Store) createStamp() int64 {
	now := time.Now().UnixMilli()
	s.mu.Lock()
	defer s.mu.Unlock()
	if now <= s.lastCreate {
		now = s.lastCreate + 1
	}
	s.lastCreate = now
	return now
}

// Put upserts a document under a fixed id.
func (s *Store) Put(ctx context.Context, c storage.Collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", c, id, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data`,
		string(c), id, raw, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert %s/%s: %w", c, id, err)
	}
	return nil
}

// Patch deep-merges a sparse patch into one document inside a transaction.
func (s *Store) Patch(ctx context.Context, c storage.Collection, id string, p patch.Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?",
		string(c), id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s/%s", storage.ErrNotFound, c, id)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s/%s: %w", c, id, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", c, id, err)
	}

	if err := patch.Apply(doc, p); err != nil {
		return fmt.Errorf("failed to apply patch to %s/%s: %w", c, id, err)
	}

	updated, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", c, id, err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE documents SET data = ? WHERE collection = ? AND id = ?",
		updated, string(c), id,
	); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", c, id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit patch: %w", err)
	}
	return nil
}

// Delete removes one document.
func (s *Store) Delete(ctx context.Context, c storage.Collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?",
		string(c), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", c, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete of %s/%s: %w", c, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", storage.ErrNotFound, c, id)
	}
	return nil
}

// DeleteAllInBatch removes the given documents in one transaction.
func (s *Store) DeleteAllInBatch(ctx context.Context, c storage.Collection, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM documents WHERE collection = ? AND id = ?",
			string(c), id,
		); err != nil {
			return fmt.Errorf("failed to batch-delete %s/%s: %w", c, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch delete: %w", err)
	}
	return nil
}
