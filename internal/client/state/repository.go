// Package state persists the client's durable key-value entries: the auth
// token and the last known user snapshot. The store gives no transactional
// guarantees; callers treat read/write failures as "unauthenticated" rather
// than fatal.
package state

import "context"

// Well-known keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Repository is a small key-value store for client state.
type Repository interface {
	// Get returns the stored value, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores or replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes everything.
	Clear(ctx context.Context) error
}
