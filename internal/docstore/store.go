// Package docstore implements the shared document store: schemaless JSON
// documents in named collections with ordered listing and a change hub that
// fans full-snapshot notifications out to subscribers on every commit.
package docstore

import (
	"context"
	"errors"
)

// Collection names. Singleton collections hold exactly one document under
// SingletonID; this is enforced by the services, not the store.
const (
	CollectionBudget    = "budget"
	CollectionExpenses  = "expenses"
	CollectionRoommates = "roommates"
	CollectionCleaning  = "cleaningTasks"
	CollectionWaterDuty = "waterDuty"

	// CollectionExportLog records which expenses the export worker has
	// already written to the spreadsheet, keyed by expense id.
	CollectionExportLog = "exportLog"

	// SingletonID is the well-known id for singleton documents. Relying on
	// "first document in the collection" would assume an ordering the store
	// does not guarantee.
	SingletonID = "current"
)

// Order controls the sort-key direction of List results.
type Order int

const (
	Ascending Order = iota
	Descending
)

var ErrNotFound = errors.New("document not found")

// Document is one stored record: an opaque JSON body under a store-assigned
// or caller-chosen id.
type Document struct {
	ID   string
	Body []byte
}

// Store is the persistence contract shared by the SQLite and PostgreSQL
// backends. The sort key is an opaque string the caller derives from the
// document (expense date, creation timestamp); List orders by it with the id
// as tiebreaker so snapshots are stable.
type Store interface {
	// Insert stores a new document under a generated id and returns the id.
	Insert(ctx context.Context, collection, sortKey string, body []byte) (string, error)

	// Put creates or overwrites the document with the given id. Used for
	// singleton documents written wholesale.
	Put(ctx context.Context, collection, id, sortKey string, body []byte) error

	// Update overwrites an existing document; ErrNotFound if absent.
	Update(ctx context.Context, collection, id, sortKey string, body []byte) error

	// Get returns a document body; ErrNotFound if absent.
	Get(ctx context.Context, collection, id string) ([]byte, error)

	// Delete removes one document; ErrNotFound if absent.
	Delete(ctx context.Context, collection, id string) error

	// Clear removes every document in a collection.
	Clear(ctx context.Context, collection string) error

	// List returns the full collection ordered by sort key.
	List(ctx context.Context, collection string, order Order) ([]Document, error)

	// Close releases the underlying database handle.
	Close() error
}
