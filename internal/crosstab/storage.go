package crosstab

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	filePrefix = "crosstab-"
	fileSuffix = ".json"

	// removeAfter is how long a posted key file lives before the sender
	// deletes it. Long enough for every peer's watcher tick to see it.
	removeAfter = 2 * time.Second

	defaultPollInterval = 250 * time.Millisecond
)

// StorageTransport is the fallback channel: post a uniquely-named key file
// into a shared directory, let peers observe it, then delete it. It mirrors
// the localStorage storage-event trick and inherits its weakness: two
// racing contexts can each deliver the same message once, so consumers
// must be idempotent.
type StorageTransport struct {
	dir      string
	origin   string
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	closed  bool
	nextSub int
	subs    map[int]func(Message)
	seen    map[string]struct{}

	stop chan struct{}
	done chan struct{}
}

// NewStorageTransport opens a transport over the shared directory dir,
// creating it if needed, and starts the watcher.
func NewStorageTransport(dir string, pollInterval time.Duration, log zerolog.Logger) (*StorageTransport, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating crosstab dir: %w", err)
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	t := &StorageTransport{
		dir:      dir,
		origin:   uuid.NewString(),
		interval: pollInterval,
		log:      log.With().Str("component", "crosstab").Logger(),
		subs:     make(map[int]func(Message)),
		seen:     make(map[string]struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go t.watch()
	return t, nil
}

// Origin returns the transport's context identity.
func (t *StorageTransport) Origin() string { return t.origin }

// Post writes the message under a unique key and schedules its removal.
func (t *StorageTransport) Post(msg Message) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if msg.Origin == "" {
		msg.Origin = t.origin
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding crosstab message: %w", err)
	}

	name := filePrefix + msg.ID + fileSuffix
	path := filepath.Join(t.dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing crosstab key: %w", err)
	}

	// The sender cleans up its own key after the peers had a chance to
	// observe it, same as deleting the localStorage key after the event.
	time.AfterFunc(removeAfter, func() { _ = os.Remove(path) })
	return nil
}

// Subscribe registers fn for incoming messages.
func (t *StorageTransport) Subscribe(fn func(Message)) func() {
	t.mu.Lock()
	t.nextSub++
	id := t.nextSub
	t.subs[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

// Close stops the watcher.
func (t *StorageTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	close(t.stop)
	<-t.done
	return nil
}

func (t *StorageTransport) watch() {
	defer close(t.done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.scan()
		}
	}
}

func (t *StorageTransport) scan() {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		t.log.Warn().Err(err).Msg("crosstab scan failed")
		return
	}

	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}

		t.mu.Lock()
		_, already := t.seen[name]
		if !already {
			t.seen[name] = struct{}{}
		}
		t.mu.Unlock()
		if already {
			continue
		}

		data, err := os.ReadFile(filepath.Join(t.dir, name))
		if err != nil {
			// Likely deleted by the sender between ReadDir and here.
			continue
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.log.Warn().Err(err).Str("key", name).Msg("discarding malformed crosstab key")
			continue
		}
		if msg.Origin == t.origin {
			continue
		}
		t.dispatch(msg)
	}
}

func (t *StorageTransport) dispatch(msg Message) {
	t.mu.Lock()
	fns := make([]func(Message), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(msg)
	}
}
