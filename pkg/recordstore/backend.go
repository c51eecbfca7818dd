package recordstore

import (
	"context"
	"errors"
)

// ErrNotExist is returned by a Backend when the collection has never been saved.
var ErrNotExist = errors.New("collection does not exist")

// Backend persists the serialized value of whole collections.
// Implementations may be files on disk, a SQL table, or memory; the Store
// layers record semantics (ids, merge, search) on top.
type Backend interface {
	// Load returns the raw JSON of a collection or ErrNotExist.
	Load(ctx context.Context, name string) ([]byte, error)
	// Save overwrites the collection with data.
	Save(ctx context.Context, name string, data []byte) error
	Exists(ctx context.Context, name string) (bool, error)
	// Remove deletes the collection. Returns true if it existed.
	Remove(ctx context.Context, name string) (bool, error)
	// List returns the names of all stored collections, sorted.
	List(ctx context.Context) ([]string, error)
}
