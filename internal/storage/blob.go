// Package storage persists the whole application state as a single tagged
// JSON blob and owns the in-memory snapshot every operation works against.
package storage

import (
	"context"
	"errors"
)

// ErrNoBlob is returned by a Blob backend when nothing has been persisted
// yet. The store reacts by seeding fixture data; it is never an error
// surfaced to callers.
var ErrNoBlob = errors.New("storage: no blob persisted")

// Blob stores one opaque byte payload under one fixed slot. Load and Save
// are whole-value operations; partial writes are never observable.
type Blob interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}
