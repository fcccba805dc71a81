package storage

import (
	"context"

	"github.com/poiesic/stickerdex/core"
)

// Tx is a transaction-scoped view of the two logical tables. Implementations
// are not safe for concurrent use; a Tx lives only inside the View/Update
// callback that produced it.
type Tx interface {
	// GetRecord retrieves a sticker record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(id core.ID) (*core.StickerRecord, error)

	// PutRecord writes or overwrites a sticker record.
	PutRecord(record *core.StickerRecord) error

	// DeleteRecord removes a sticker record by ID.
	// Deleting a missing record is not an error.
	DeleteRecord(id core.ID) error

	// GetPostings retrieves the posting list for a term.
	// A missing term yields an empty list, not an error.
	GetPostings(term string) (core.PostingList, error)

	// PutPostings writes or overwrites the posting list for a term.
	// The list must be non-empty; empty lists are deleted, never stored.
	PutPostings(term string, list core.PostingList) error

	// DeletePostings removes the posting list for a term.
	// Deleting a missing term is not an error.
	DeletePostings(term string) error

	// AddPackMember records pack membership of a sticker in the pack index.
	AddPackMember(packId string, id core.ID) error

	// DeletePackMember removes a sticker from the pack index.
	DeletePackMember(packId string, id core.ID) error

	// PackMembers returns the IDs of all stickers belonging to a pack,
	// in ascending ID order.
	PackMembers(packId string) ([]core.ID, error)

	// IterRecords calls fn for every stored sticker record. Iteration
	// stops on the first error, which is returned.
	IterRecords(fn func(record *core.StickerRecord) error) error

	// IterTerms calls fn for every term with a stored posting list.
	// Iteration stops on the first error, which is returned.
	IterTerms(fn func(term string, list core.PostingList) error) error
}

// Store is durable, crash-safe storage for sticker records and the inverted
// index. Implementations must be thread-safe and support concurrent access.
type Store interface {
	// View executes fn within a read-only snapshot transaction.
	View(ctx context.Context, fn func(tx Tx) error) error

	// Update executes fn within a read-write transaction. The transaction
	// commits only if fn returns nil; on any other exit path it is rolled
	// back entirely, so partial application is never observable. Write
	// contention surfaces as ErrConflict, I/O failures as ErrUnavailable.
	Update(ctx context.Context, fn func(tx Tx) error) error

	// GetRecord is a single-operation read transaction.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.StickerRecord, error)

	// GetPostings is a single-operation read transaction.
	// A missing term yields an empty list, not an error.
	GetPostings(ctx context.Context, term string) (core.PostingList, error)

	// Close flushes and closes the storage backend.
	Close() error
}
