// Package navigator drives page-to-page navigation on the client.
//
// A Controller owns the session identifier, the current context (the markup
// of the last successfully rendered page) and the single-flight generation
// policy. Cached pages are served without a network call; everything else
// is generated, sanitized, cached and rendered.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/achneerov/dreamrender/pkg/generate"
	"github.com/achneerov/dreamrender/pkg/pagecache"
	"github.com/achneerov/dreamrender/pkg/sanitize"
)

// FailedLoadMessage is shown when the first page of a session cannot be
// generated.
const FailedLoadMessage = "Failed to load. Please refresh the page."

var (
	// ErrBusy is returned when an action arrives while a generation is in
	// flight. The action is dropped.
	ErrBusy = errors.New("navigator: generation in progress")

	// ErrStaleAction is returned for an action that does not belong to the
	// page currently displayed.
	ErrStaleAction = errors.New("navigator: action is not on the displayed page")
)

// State is the controller's generation state.
type State int32

const (
	// StateIdle accepts actions.
	StateIdle State = iota

	// StateGenerating drops actions.
	StateGenerating
)

func (s State) String() string {
	if s == StateGenerating {
		return "generating"
	}
	return "idle"
}

// Generator fetches the raw body of a generated page. client.Client
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (string, error)
}

// Display shows pages to the user. Calls are made from the goroutine that
// invoked Start or Activate.
type Display interface {
	ShowLoading()
	Render(Page)
	SetTitle(title string)
	ShowError(message string)
}

// Option configures a Controller.
type Option func(*Controller)

// WithSessionID replaces the minted session identifier.
func WithSessionID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.sessionID = id
		}
	}
}

// Controller implements the Idle/Generating navigation state machine.
type Controller struct {
	gen       Generator
	cache     *pagecache.Cache
	display   Display
	sessionID string

	// dispatch orders action resolution; flight is held for a whole
	// generation.
	dispatch sync.Mutex
	flight   sync.Mutex
	state    atomic.Int32

	mu        sync.Mutex
	current   string
	displayed Page
	epoch     uint64
}

// New creates a Controller with a freshly minted session identifier.
func New(gen Generator, cache *pagecache.Cache, display Display, opts ...Option) *Controller {
	c := &Controller{
		gen:       gen,
		cache:     cache,
		display:   display,
		sessionID: NewSessionID(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionID returns the session identifier sent with every request.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// State returns the current generation state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// CurrentContext returns the markup of the last successfully rendered page.
func (c *Controller) CurrentContext() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Displayed returns the page currently on screen.
func (c *Controller) Displayed() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayed
}

// begin enters the Generating state unless a generation is in flight.
func (c *Controller) begin() bool {
	if !c.flight.TryLock() {
		return false
	}
	c.state.Store(int32(StateGenerating))
	return true
}

// finish restores Idle after begin.
func (c *Controller) finish() {
	c.state.Store(int32(StateIdle))
	c.flight.Unlock()
}

// Start purges pages left by earlier sessions, generates the first page,
// caches it under pagecache.HomeKey and renders it. On failure the display
// shows FailedLoadMessage.
func (c *Controller) Start(ctx context.Context) error {
	if !c.begin() {
		return ErrBusy
	}
	defer c.finish()

	if err := c.cache.Reset(ctx); err != nil {
		c.display.ShowError(FailedLoadMessage)
		return fmt.Errorf("resetting page cache: %w", err)
	}

	c.display.ShowLoading()
	raw, err := c.gen.Generate(ctx, generate.Request{
		Prompt:    generate.DefaultPrompt,
		SessionID: c.sessionID,
	})
	if err != nil {
		slog.Error("navigator: initial generation failed", "session_id", c.sessionID, "error", err)
		c.display.ShowError(FailedLoadMessage)
		return fmt.Errorf("generating home page: %w", err)
	}

	c.commit(ctx, pagecache.HomeKey, sanitize.Sanitize(raw))
	return nil
}

// Activate performs action. A cached target is rendered without a network
// call and without leaving Idle; otherwise the target is generated from the
// current context.
//
// While a generation is in flight Activate returns ErrBusy without side
// effects. On failure the previously displayed page is rendered again and
// the current context is left unchanged.
func (c *Controller) Activate(ctx context.Context, action Action) error {
	c.dispatch.Lock()
	if !c.flight.TryLock() {
		c.dispatch.Unlock()
		return ErrBusy
	}

	c.mu.Lock()
	stale := action.epoch == 0 || action.epoch != c.epoch
	previous := c.displayed
	current := c.current
	c.mu.Unlock()

	key := action.Key()
	if stale {
		c.flight.Unlock()
		c.dispatch.Unlock()
		return ErrStaleAction
	}
	if html, ok := c.cache.Get(ctx, key); ok {
		slog.Debug("navigator: cache hit", "key", key)
		c.setCurrent(html)
		c.render(key, html)
		c.flight.Unlock()
		c.dispatch.Unlock()
		return nil
	}

	c.state.Store(int32(StateGenerating))
	c.dispatch.Unlock()
	defer c.finish()

	c.display.ShowLoading()
	raw, err := c.gen.Generate(ctx, generate.Request{
		Prompt:         action.Label(),
		SessionID:      c.sessionID,
		CurrentContext: current,
		CachedPages:    c.cache.Keys(ctx),
	})
	if err != nil {
		slog.Error("navigator: generation failed", "session_id", c.sessionID, "key", key, "error", err)
		c.render(previous.Key, previous.HTML)
		return fmt.Errorf("generating %s: %w", key, err)
	}

	c.commit(ctx, key, sanitize.Sanitize(raw))
	return nil
}

// commit caches a generated page, makes it the current context and renders
// it.
func (c *Controller) commit(ctx context.Context, key, html string) {
	if err := c.cache.Put(ctx, key, html); err != nil {
		slog.Warn("navigator: caching page failed", "key", key, "error", err)
	}
	c.setCurrent(html)
	c.render(key, html)
}

func (c *Controller) setCurrent(html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = html
}

// render scans html, stamps its actions with a new epoch so that actions of
// the replaced page go stale, and hands the page to the display.
func (c *Controller) render(key, html string) {
	page := Scan(html)
	page.Key = key

	c.mu.Lock()
	c.epoch++
	for i := range page.Actions {
		page.Actions[i].epoch = c.epoch
	}
	c.displayed = page
	c.mu.Unlock()

	if page.Title != "" {
		c.display.SetTitle(page.Title)
	}
	c.display.Render(page)
}
