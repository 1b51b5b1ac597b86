package ports

import "context"

// VersionCache is an optional read-through cache for the per-user version
// counter consulted on every authenticated request. Put must never let the
// cached value regress below a previously cached version.
type VersionCache interface {
	Get(ctx context.Context, userID string) (version int, ok bool, err error)
	Put(ctx context.Context, userID string, version int) error
}
