// Package session tracks per-visitor generation context on the server.
// It defines the Store interface and the GenerationContext type recorded on
// a session's first generation request.
package session

import (
	"time"
)

const (
	// DefaultTTL is how long a generation context is kept after creation.
	DefaultTTL = time.Hour

	// DefaultSweepInterval is how often expired contexts are reaped.
	DefaultSweepInterval = 5 * time.Minute
)

// GenerationContext is the server's record of a session's conversational
// origin. It is written once and never mutated afterwards.
type GenerationContext struct {
	// SessionID is the client-minted session identifier.
	SessionID string

	// InitialPrompt is the resolved prompt of the session's first request.
	InitialPrompt string

	// Timestamp is when the context was created.
	Timestamp time.Time
}

// Store defines the interface for generation context storage.
type Store interface {
	// RegisterIfAbsent records a context for sessionID unless one already
	// exists or sessionID is empty. It reports whether a context was created.
	RegisterIfAbsent(sessionID, initialPrompt string) bool

	// Get retrieves the context for sessionID.
	Get(sessionID string) (GenerationContext, bool)

	// Sweep removes every context older than the store's TTL relative to now
	// and returns how many were removed.
	Sweep(now time.Time) int

	// Len returns the number of stored contexts.
	Len() int

	// Close stops background routines.
	Close() error
}
