// Package crosstab broadcasts cache-affecting events between browsing
// contexts of the same session. Delivery is best-effort and at-most-once
// per call; there is no ordering guarantee, so every message is a
// re-fetch hint, never an authoritative delta, and listeners must be
// idempotent (the storage fallback can double-deliver across racing tabs).
package crosstab

import "time"

// Op identifies the cache operation a message carries.
type Op string

const (
	OpInvalidate Op = "invalidate"
	OpClear      Op = "clear"
	OpSet        Op = "set"
	OpRefresh    Op = "refresh"
)

// Message is one broadcast event.
type Message struct {
	ID     string    `json:"id"`
	Origin string    `json:"origin"` // sending context, so it can skip itself
	Op     Op        `json:"op"`
	Key    string    `json:"key,omitempty"` // cache key or invalidation pattern
	SentAt time.Time `json:"sent_at"`
}

// Transport moves messages between contexts. Post must never block on slow
// receivers; Subscribe returns an unsubscribe func.
type Transport interface {
	Post(msg Message) error
	Subscribe(fn func(Message)) (unsubscribe func())
	Close() error
}
