// Package storage provides abstractions for the board's document store.
package storage

import (
	"context"
	"errors"

	"checkinboard/internal/patch"
)

// Collection names the document collections the board uses.
type Collection string

// The four live collections.
const (
	Groups      Collection = "groups"
	TeamMembers Collection = "teamMembers"
	Areas       Collection = "areas"
	FoodItems   Collection = "foodItems"
)

// Collections lists every known collection.
var Collections = []Collection{Groups, TeamMembers, Areas, FoodItems}

// Known reports whether c is one of the board's collections.
func Known(c Collection) bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}

// ErrNotFound is returned when a document id does not exist.
var ErrNotFound = errors.New("document not found")

// Document is one stored record: an opaque id plus its JSON object fields.
type Document struct {
	ID        string
	Data      map[string]any
	CreatedAt int64
}

// Store is the document store the whole board runs against.
// This abstraction allows swapping storage backends without changing the
// service layer; the single implementation today is SQLite.
//
// Writes are last-write-wins per patched path. Patch applies deep-merge
// semantics (see the patch package); there is no version counter and no
// retry, matching the board's single-operator usage model.
type Store interface {
	// List returns the complete current set of documents in a collection,
	// ordered by creation time. This is the snapshot unit pushed to
	// subscribers on every change.
	List(ctx context.Context, c Collection) ([]Document, error)

	// Get retrieves one document. Returns ErrNotFound if absent.
	Get(ctx context.Context, c Collection, id string) (Document, error)

	// Create persists a new document and returns the store-assigned id.
	// A createdAt field is stamped into the document if absent.
	Create(ctx context.Context, c Collection, fields map[string]any) (string, error)

	// Put upserts a document under a caller-chosen id. Used for the fixed
	// catalog documents ("pizzas", "snacks").
	Put(ctx context.Context, c Collection, id string, fields map[string]any) error

	// Patch deep-merges a sparse dotted-path patch into one document,
	// atomically. Returns ErrNotFound if the document is absent.
	Patch(ctx context.Context, c Collection, id string, p patch.Patch) error

	// Delete removes one document. Returns ErrNotFound if absent.
	Delete(ctx context.Context, c Collection, id string) error

	// DeleteAllInBatch removes the given documents in a single atomic
	// batch: either every delete commits or none do. Ids that are already
	// gone are skipped, not errors.
	DeleteAllInBatch(ctx context.Context, c Collection, ids []string) error

	// Close releases any resources held by the store.
	Close() error
}
