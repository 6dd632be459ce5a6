package crosstab

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/spendguard/spendguard/internal/cache"
)

// Sync is the fire-and-forget broadcast facade. Post failures are logged
// and swallowed; a missed broadcast only means a peer serves a stale read
// until its own TTL expires.
type Sync struct {
	transport Transport
	log       zerolog.Logger
	now       func() time.Time
}

// New wraps a transport. A nil clock means the system clock.
func New(transport Transport, log zerolog.Logger, now func() time.Time) *Sync {
	if now == nil {
		now = time.Now
	}
	return &Sync{
		transport: transport,
		log:       log.With().Str("component", "crosstab").Logger(),
		now:       now,
	}
}

// BroadcastInvalidate tells peers to drop the pattern's cache entries.
func (s *Sync) BroadcastInvalidate(pattern string) {
	s.post(Message{Op: OpInvalidate, Key: pattern})
}

// BroadcastClear tells peers to drop their entire cache.
func (s *Sync) BroadcastClear() {
	s.post(Message{Op: OpClear})
}

// BroadcastSet tells peers a key was repopulated locally.
func (s *Sync) BroadcastSet(key string) {
	s.post(Message{Op: OpSet, Key: key})
}

// BroadcastRefresh tells peers to refetch a key.
func (s *Sync) BroadcastRefresh(key string) {
	s.post(Message{Op: OpRefresh, Key: key})
}

// Subscribe registers a listener for incoming messages and returns its
// unsubscribe func. Listeners must be idempotent.
func (s *Sync) Subscribe(fn func(Message)) func() {
	return s.transport.Subscribe(fn)
}

// Close closes the underlying transport.
func (s *Sync) Close() error {
	return s.transport.Close()
}

func (s *Sync) post(msg Message) {
	msg.ID = uuid.NewString()
	msg.SentAt = s.now()
	if err := s.transport.Post(msg); err != nil {
		s.log.Warn().Err(err).Str("op", string(msg.Op)).Str("key", msg.Key).
			Msg("crosstab post failed")
	}
}

// Bind subscribes the cache store to incoming messages. Every message is
// treated as a re-fetch hint: set/refresh drop the local copy so the next
// read repopulates it. Dropping an already-absent key is a no-op, which is
// what makes double delivery harmless.
func Bind(s *Sync, store *cache.Store) func() {
	return s.Subscribe(func(msg Message) {
		switch msg.Op {
		case OpInvalidate:
			store.Invalidate(msg.Key)
		case OpClear:
			store.Clear()
		case OpSet, OpRefresh:
			store.Invalidate(msg.Key)
		}
	})
}
