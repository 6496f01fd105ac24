// Package store defines the persistence contracts for cached bearer tokens
// and user authorization records. Drivers live under drivers/; the in-memory
// driver serves tests and single-instance deployments, the sqlite driver is
// the durable backend. A distributed KV store with native TTL support slots
// in behind the same interfaces.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/crescendoapp/crescendo/internal/accounts/domain"
)

// ErrNotFound reports a missing entry. It is the only lookup failure a caller
// should branch on; anything else is a backing-storage problem and must be
// propagated, not swallowed.
var ErrNotFound = errors.New("store: not found")

// TokenStore maps opaque keys to cached bearer tokens. For the app-level
// token the key is a fixed constant; for user tokens it is the user hash.
// Implementations must make each operation atomic per key: concurrent writes
// may race (last write wins) but partial writes are not allowed. Stale
// entries are superseded rather than deleted; DeleteExpired exists for
// deployments that want TTL-style eviction.
type TokenStore interface {
	// InsertOrReplace unconditionally overwrites any entry for key.
	InsertOrReplace(ctx context.Context, key string, token domain.BearerToken) error

	// Get returns the stored token or ErrNotFound.
	Get(ctx context.Context, key string) (domain.BearerToken, error)

	// DeleteExpired removes entries whose expiry is at or before now.
	DeleteExpired(ctx context.Context, now time.Time) error
}

// UserAuthStore owns the durable per-user authorization records produced by
// the authorization-code handshake.
type UserAuthStore interface {
	// Create inserts a fresh record.
	Create(ctx context.Context, rec domain.UserAuthRecord) error

	// Get returns the record for a user hash or ErrNotFound.
	Get(ctx context.Context, userHash string) (domain.UserAuthRecord, error)

	// InsertOrReplace writes the record, overwriting any existing one for
	// the same user hash.
	InsertOrReplace(ctx context.Context, rec domain.UserAuthRecord) error

	// Update overwrites an existing record; ErrNotFound if absent.
	Update(ctx context.Context, rec domain.UserAuthRecord) error
}
