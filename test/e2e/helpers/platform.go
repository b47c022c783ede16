//go:build integration

package helpers

import (
	"context"
	"iter"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/achneerov/dreamrender/pkg/llm"
	"github.com/achneerov/dreamrender/pkg/platform"
)

// ScriptedCompleter answers each completion with the next scripted page,
// split into small fragments to exercise streaming.
type ScriptedCompleter struct {
	mu    sync.Mutex
	pages []string
	calls int
}

// NewScriptedCompleter creates a completer that returns pages in order.
func NewScriptedCompleter(pages ...string) *ScriptedCompleter {
	return &ScriptedCompleter{pages: pages}
}

// Stream implements llm.Completer.
func (s *ScriptedCompleter) Stream(_ context.Context, _ llm.Request) iter.Seq2[string, error] {
	s.mu.Lock()
	page := "<html><body>out of script</body></html>"
	if s.calls < len(s.pages) {
		page = s.pages[s.calls]
	}
	s.calls++
	s.mu.Unlock()

	return func(yield func(string, error) bool) {
		for chunk := range strings.SplitSeq(page, ">") {
			if chunk == "" {
				continue
			}
			if !yield(chunk+">", nil) {
				return
			}
		}
	}
}

// Name implements llm.Completer.
func (*ScriptedCompleter) Name() string { return "scripted:e2e" }

// Calls returns how many completions were requested.
func (s *ScriptedCompleter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// StartServer builds a platform with audit logging against dsn, starts it and
// serves it on an httptest server. Everything is stopped when the test ends.
func StartServer(t *testing.T, dsn string, completer llm.Completer) (*platform.Platform, *httptest.Server) {
	t.Helper()

	cfg := platform.ConfigFromEnv()
	cfg.Database.DSN = dsn
	cfg.Audit.Enabled = true

	p, err := platform.New(platform.WithConfig(cfg), platform.WithCompleter(completer))
	if err != nil {
		t.Fatalf("creating platform: %v", err)
	}
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("starting platform: %v", err)
	}

	srv := httptest.NewServer(p.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = p.Close()
	})
	return p, srv
}
