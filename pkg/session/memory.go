package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithTTL sets how long a context lives before the sweep removes it.
func WithTTL(ttl time.Duration) Option {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSweepInterval sets the period of the cleanup routine.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithClock replaces time.Now as the store's time source.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// MemoryStore implements Store using an in-memory map with TTL-based expiration.
type MemoryStore struct {
	mu       sync.RWMutex
	contexts map[string]GenerationContext

	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMemoryStore creates a new in-memory context store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		contexts:      make(map[string]GenerationContext),
		ttl:           DefaultTTL,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterIfAbsent records a context for sessionID unless one already exists.
func (s *MemoryStore) RegisterIfAbsent(sessionID, initialPrompt string) bool {
	if sessionID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contexts[sessionID]; ok {
		return false
	}
	s.contexts[sessionID] = GenerationContext{
		SessionID:     sessionID,
		InitialPrompt: initialPrompt,
		Timestamp:     s.now(),
	}
	return true
}

// Get retrieves the context for sessionID.
func (s *MemoryStore) Get(sessionID string) (GenerationContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gc, ok := s.contexts[sessionID]
	return gc, ok
}

// Len returns the number of stored contexts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.contexts)
}

// Sweep removes contexts whose age relative to now exceeds the TTL.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, gc := range s.contexts {
		if now.Sub(gc.Timestamp) > s.ttl {
			delete(s.contexts, id)
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine starts a background goroutine that sweeps expired
// contexts every sweep interval. The goroutine is stopped when Close is called.
func (s *MemoryStore) StartCleanupRoutine() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(s.now()); n > 0 {
					slog.Debug("session: swept expired contexts", "removed", n, "remaining", s.Len())
				}
			}
		}
	}()
}

// Close stops the cleanup goroutine and waits for it to exit.
// It is safe to call Close even if StartCleanupRoutine was never called.
func (s *MemoryStore) Close() error {
	if s.cancel != nil {
		s.cancel()
		<-s.done
		s.cancel = nil
	}
	return nil
}

// Verify interface compliance.
var _ Store = (*MemoryStore)(nil)
