package crosstab

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Post after the transport has been closed.
var ErrClosed = errors.New("crosstab: transport closed")

// Hub is the primary in-process broadcast channel. Each context opens its
// own HubTransport on a named channel; a post is delivered to every other
// transport on the same channel, never back to the sender.
type Hub struct {
	mu       sync.Mutex
	nextID   int
	channels map[string]map[int]*HubTransport
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{channels: make(map[string]map[int]*HubTransport)}
}

// Channel opens a transport on the named channel.
func (h *Hub) Channel(name string) *HubTransport {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	t := &HubTransport{
		hub:     h,
		channel: name,
		id:      h.nextID,
		subs:    make(map[int]func(Message)),
	}
	if h.channels[name] == nil {
		h.channels[name] = make(map[int]*HubTransport)
	}
	h.channels[name][t.id] = t
	return t
}

func (h *Hub) broadcast(channel string, senderID int, msg Message) {
	h.mu.Lock()
	peers := make([]*HubTransport, 0, len(h.channels[channel]))
	for id, t := range h.channels[channel] {
		if id != senderID {
			peers = append(peers, t)
		}
	}
	h.mu.Unlock()

	for _, t := range peers {
		t.deliver(msg)
	}
}

func (h *Hub) remove(channel string, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.channels[channel]; m != nil {
		delete(m, id)
	}
}

// HubTransport is one context's connection to a Hub channel.
type HubTransport struct {
	hub     *Hub
	channel string
	id      int

	mu      sync.Mutex
	closed  bool
	nextSub int
	subs    map[int]func(Message)
}

// Post broadcasts msg to every other transport on the channel.
func (t *HubTransport) Post(msg Message) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrClosed
	}
	t.hub.broadcast(t.channel, t.id, msg)
	return nil
}

// Subscribe registers fn for incoming messages.
func (t *HubTransport) Subscribe(fn func(Message)) func() {
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

// Close detaches the transport from the hub.
func (t *HubTransport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.subs = make(map[int]func(Message))
	t.mu.Unlock()
	t.hub.remove(t.channel, t.id)
	return nil
}

func (t *HubTransport) deliver(msg Message) {
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
