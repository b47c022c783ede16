package audit

import "context"

// NoopLogger discards events. It is used when no database is configured.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(context.Context, Event) error { return nil }

// Query returns no events.
func (NoopLogger) Query(context.Context, QueryFilter) ([]Event, error) { return nil, nil }

// Close does nothing.
func (NoopLogger) Close() error { return nil }

// Verify interface compliance.
var _ Logger = (*NoopLogger)(nil)
