// Package notify defines the outbound notification contract. Actual
// delivery (push, browser notification) lives outside this core.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Dispatcher delivers a user-facing notification. It is invoked only after
// the alert deduplicator confirms the threshold is new.
type Dispatcher interface {
	Send(ctx context.Context, title, message string, metadata map[string]string) error
}

// LogDispatcher writes notifications to the log. It is the default
// dispatcher for the CLI and a convenient stand-in for tests.
type LogDispatcher struct {
	log zerolog.Logger
}

// NewLogDispatcher returns a dispatcher logging through log.
func NewLogDispatcher(log zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{log: log.With().Str("component", "notify").Logger()}
}

// Send logs the notification at info level.
func (d *LogDispatcher) Send(_ context.Context, title, message string, metadata map[string]string) error {
	ev := d.log.Info().Str("title", title)
	for k, v := range metadata {
		ev = ev.Str(k, v)
	}
	ev.Msg(message)
	return nil
}
