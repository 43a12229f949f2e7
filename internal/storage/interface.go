package storage

import (
	"context"
	"encoding/json"

	"github.com/mcoot/gamenight/internal/model"
)

// Document is one record in a collection. Data is the record's JSON
// encoding without its id.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Snapshot is the full contents of a collection at one point in time,
// ordered by document id. Ids are issued in time order, so this is also
// the order documents were appended in.
type Snapshot struct {
	Collection model.Collection
	Documents  []Document
}

// Storage is the document store the engine reads from and writes to.
// No guarantee spans multiple calls: a match submission is a sequence of
// independent writes.
type Storage interface {
	// Subscribe delivers the current snapshot of a collection immediately,
	// then a fresh snapshot after every change, until the subscription is
	// closed or ctx is done
	Subscribe(ctx context.Context, collection model.Collection) (*Subscription, error)

	// List returns the current snapshot of a collection
	List(ctx context.Context, collection model.Collection) (Snapshot, error)

	// Get returns a single document, or model.ErrDocumentNotFound
	Get(ctx context.Context, collection model.Collection, id string) (Document, error)

	// Append stores a new document and returns the id the store assigned
	Append(ctx context.Context, collection model.Collection, data any) (string, error)

	// Set replaces a document, creating it if needed
	Set(ctx context.Context, collection model.Collection, id string, data any) error

	// Patch merges top-level fields into a document, creating it if needed.
	// A nil field value removes that field.
	Patch(ctx context.Context, collection model.Collection, id string, fields map[string]any) error

	// Remove deletes a document. Removing a missing document is not an error.
	Remove(ctx context.Context, collection model.Collection, id string) error

	// Close releases the store's resources
	Close() error
}
