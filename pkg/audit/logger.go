// Package audit records every page generation for later inspection.
package audit

import (
	"context"
	"time"
)

// Logger defines the interface for generation logging.
type Logger interface {
	// Log records an event.
	Log(ctx context.Context, event Event) error

	// Query retrieves events matching the filter, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Close releases resources.
	Close() error
}

// Event describes one generation request.
type Event struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	DurationMS    int64     `json:"duration_ms"`
	RequestID     string    `json:"request_id"`
	SessionID     string    `json:"session_id"`
	Kind          string    `json:"kind"`
	Keyword       string    `json:"keyword,omitempty"`
	Model         string    `json:"model"`
	CachedPages   int       `json:"cached_pages"`
	PromptChars   int       `json:"prompt_chars"`
	ResponseChars int       `json:"response_chars"`
	Fragments     int       `json:"fragments"`
	Success       bool      `json:"success"`
	ErrorMessage  string    `json:"error_message,omitempty"`
}

// QueryFilter defines criteria for querying events.
type QueryFilter struct {
	StartTime *time.Time
	EndTime   *time.Time
	SessionID string
	Kind      string
	Success   *bool
	Limit     int
	Offset    int
}

// Config configures generation logging.
type Config struct {
	Enabled       bool
	RetentionDays int
}
