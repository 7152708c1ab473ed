package ports

import "context"

// Cache kinds used by the lookup decorators.
const (
	KindSearch  = "search"
	KindReverse = "reverse"
	KindRoute   = "route"
)

// Port: a key/value store for external lookup results.
// Keys are expected to be normalized by the caller.
type LookupCache interface {
	// Return the payload for kind/key, or ok=false on a miss or an expired entry.
	Get(ctx context.Context, kind, key string) (payload []byte, ok bool, err error)
	// Store the payload for kind/key, replacing any previous entry.
	Put(ctx context.Context, kind, key string, payload []byte) error
}
