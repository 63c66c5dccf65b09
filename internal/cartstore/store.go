// Package cartstore persists cart snapshots keyed by session so a cart
// survives process restarts and is visible to other consumers of the
// backing store.
package cartstore

import "context"

// Store mirrors the in-memory cart into durable storage. Save must be
// atomic per key: a failed write leaves the previous snapshot intact.
type Store interface {
	// Load returns the snapshot payload for the session, with found=false
	// when no snapshot exists yet.
	Load(ctx context.Context, sessionID string) (payload []byte, found bool, err error)

	// Save overwrites the session's snapshot with the provided payload.
	Save(ctx context.Context, sessionID string, payload []byte) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
