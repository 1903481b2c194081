// Package store persists document snapshots to durable key-value storage.
package store

import (
	"context"

	"github.com/dgallion1/mdlive/internal/block"
)

// Store is durable key-value storage for JSON-serialized documents.
type Store interface {
	Put(ctx context.Context, key string, doc block.Document) error
	// Get returns (nil, false, nil) when the key does not exist.
	Get(ctx context.Context, key string) (block.Document, bool, error)
	Close() error
}

// WorkingKey is where the in-progress document for docID is snapshotted.
func WorkingKey(docID string) string {
	return docID + ":working"
}

// FinalizedKey holds the canonical finished document for docID. It is
// only ever written on a completed stream.
func FinalizedKey(docID string) string {
	return docID + ":finalized"
}
