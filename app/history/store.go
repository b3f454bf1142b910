// Package history persists the set of already exported watch events so that
// consecutive runs, including runs after a restart, never emit a row twice.
package history

import (
	"context"
	"errors"
)

// ErrUnreadable means persisted history exists but could not be decoded.
// Callers must stop rather than start over with an empty set.
var ErrUnreadable = errors.New("export history unreadable")

type Store interface {
	// Load returns the persisted keys, or an empty set when nothing was persisted yet.
	Load(ctx context.Context) (*Set, error)
	// Persist replaces the durable state with the full set.
	Persist(ctx context.Context, set *Set) error
	Close() error
}
