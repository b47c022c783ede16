package pagecache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// DefaultPrefix namespaces every page key in the underlying storages.
const DefaultPrefix = "dreamrender_page_"

const slogKeyError = "error"

// Option configures a Cache.
type Option func(*Cache)

// WithPrefix overrides DefaultPrefix. An empty prefix is ignored.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// Cache maps page keys to sanitized page markup.
type Cache struct {
	volatile Storage
	prefix   string

	mu         sync.RWMutex
	persistent Storage
}

// New creates a Cache. persistent may be nil for a memory-only cache.
func New(volatile, persistent Storage, opts ...Option) *Cache {
	if volatile == nil {
		volatile = NewMemoryStorage()
	}
	c := &Cache{
		volatile:   volatile,
		persistent: persistent,
		prefix:     DefaultPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prefix returns the storage key prefix.
func (c *Cache) Prefix() string {
	return c.prefix
}

// Persistent reports whether a persistent layer is attached.
func (c *Cache) Persistent() bool {
	return c.persistentLayer() != nil
}

func (c *Cache) persistentLayer() Storage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.persistent
}

func (c *Cache) detachPersistent(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.persistent != nil {
		slog.Warn("pagecache: detaching persistent layer", slogKeyError, err)
		c.persistent = nil
	}
}

// Reset removes every prefixed entry from both layers.
//
// A failure on the volatile layer is returned. A failure on the persistent
// layer detaches it for the lifetime of the Cache so that pages from an
// earlier session can never be served.
func (c *Cache) Reset(ctx context.Context) error {
	if err := c.purge(ctx, c.volatile); err != nil {
		return fmt.Errorf("resetting volatile pages: %w", err)
	}
	if p := c.persistentLayer(); p != nil {
		if err := c.purge(ctx, p); err != nil {
			c.detachPersistent(err)
		}
	}
	return nil
}

func (c *Cache) purge(ctx context.Context, s Storage) error {
	keys, err := s.Keys(ctx)
	if err != nil {
		return fmt.Errorf("listing keys: %w", err)
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, c.prefix) {
			continue
		}
		if err := s.Delete(ctx, k); err != nil {
			return fmt.Errorf("deleting %s: %w", k, err)
		}
	}
	return nil
}

// Put stores html under key. The persistent write is best effort.
func (c *Cache) Put(ctx context.Context, key, html string) error {
	k := c.prefix + key
	if err := c.volatile.Set(ctx, k, html); err != nil {
		return fmt.Errorf("caching page %s: %w", key, err)
	}
	if p := c.persistentLayer(); p != nil {
		if err := p.Set(ctx, k, html); err != nil {
			slog.Warn("pagecache: persistent write failed", "key", key, slogKeyError, err)
		}
	}
	return nil
}

// Get returns the cached markup for key. A page found only in the persistent
// layer is copied into the volatile layer.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	k := c.prefix + key
	html, ok, err := c.volatile.Get(ctx, k)
	if err != nil {
		slog.Warn("pagecache: volatile read failed", "key", key, slogKeyError, err)
	}
	if ok {
		return html, true
	}

	p := c.persistentLayer()
	if p == nil {
		return "", false
	}
	html, ok, err = p.Get(ctx, k)
	if err != nil {
		slog.Warn("pagecache: persistent read failed", "key", key, slogKeyError, err)
		return "", false
	}
	if !ok {
		return "", false
	}
	if err := c.volatile.Set(ctx, k, html); err != nil {
		slog.Warn("pagecache: back-fill failed", "key", key, slogKeyError, err)
	}
	return html, true
}

// Keys returns the cached page keys in insertion order, without the prefix.
func (c *Cache) Keys(ctx context.Context) []string {
	keys, err := c.volatile.Keys(ctx)
	if err != nil {
		slog.Warn("pagecache: listing keys failed", slogKeyError, err)
		return []string{}
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if rest, ok := strings.CutPrefix(k, c.prefix); ok {
			out = append(out, rest)
		}
	}
	return out
}
