package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Hook is a named pair of start and stop callbacks. Either may be nil.
type Hook struct {
	Name  string
	Start func(context.Context) error
	Stop  func(context.Context) error
}

// Lifecycle manages the startup and shutdown of server components.
type Lifecycle struct {
	mu sync.Mutex

	hooks   []Hook
	started int // number of hooks whose Start succeeded
	running bool
}

// NewLifecycle creates a new lifecycle manager.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{}
}

// Append registers a hook. Hooks start in registration order and stop in
// reverse.
func (l *Lifecycle) Append(h Hook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, h)
}

// Start runs every start callback. When one fails, the hooks already started
// are stopped in reverse order and the error is returned.
func (l *Lifecycle) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return errors.New("lifecycle already started")
	}

	for i, h := range l.hooks {
		if h.Start != nil {
			if err := h.Start(ctx); err != nil {
				l.started = i
				l.rollback(ctx)
				return fmt.Errorf("starting %s: %w", h.Name, err)
			}
		}
	}

	l.started = len(l.hooks)
	l.running = true
	return nil
}

// rollback stops the first l.started hooks in reverse order.
func (l *Lifecycle) rollback(ctx context.Context) {
	for j := l.started - 1; j >= 0; j-- {
		h := l.hooks[j]
		if h.Stop == nil {
			continue
		}
		if err := h.Stop(ctx); err != nil {
			slog.Warn("lifecycle rollback: stop failed", "hook", h.Name, "error", err)
		}
	}
	l.started = 0
}

// Stop runs every stop callback in reverse order, joining their errors.
func (l *Lifecycle) Stop(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return nil
	}

	var errs []error
	for i := l.started - 1; i >= 0; i-- {
		h := l.hooks[i]
		if h.Stop == nil {
			continue
		}
		if err := h.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping %s: %w", h.Name, err))
		}
	}

	l.started = 0
	l.running = false
	return errors.Join(errs...)
}

// IsStarted returns whether the lifecycle has been started.
func (l *Lifecycle) IsStarted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Closer is something that can be closed.
type Closer interface {
	Close() error
}

// AppendCloser registers a closer to be closed on shutdown.
func (l *Lifecycle) AppendCloser(name string, c Closer) {
	l.Append(Hook{
		Name: name,
		Stop: func(context.Context) error { return c.Close() },
	})
}
