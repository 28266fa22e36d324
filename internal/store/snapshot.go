package store

import "context"

// SnapshotStore is the durable key-value contract the session cache uses to
// persist its library snapshot across process restarts. The value is an
// opaque serialized string; the encoding is an implementation detail of the
// session cache, not a compatibility contract.
type SnapshotStore interface {
	// Get retrieves the snapshot stored under key.
	// Returns ErrSnapshotNotFound if no snapshot exists.
	Get(ctx context.Context, key string) (string, error)

	// Set stores the snapshot under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
