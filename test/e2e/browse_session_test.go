//go:build integration

package e2e

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/achneerov/dreamrender/pkg/audit"
	"github.com/achneerov/dreamrender/pkg/client"
	"github.com/achneerov/dreamrender/pkg/generate"
	"github.com/achneerov/dreamrender/pkg/navigator"
	"github.com/achneerov/dreamrender/pkg/pagecache"
	"github.com/achneerov/dreamrender/pkg/pagecache/sqlstore"
	"github.com/achneerov/dreamrender/test/e2e/helpers"
)

const (
	homeMarkup = "```html\n<html><head><title>Harbor Cafe</title></head><body>" +
		`<h1>Harbor Cafe</h1><a data-path="contact_us">Contact us</a></body></html>` + "\n```"
	contactMarkup = `<think>plan</think><html><head><title>Contact</title></head><body>` +
		`<h1>Contact</h1><a data-path="Home">Home</a></body></html>`
)

type pageRecorder struct {
	mu     sync.Mutex
	pages  []navigator.Page
	errors []string
}

func (r *pageRecorder) ShowLoading() {}

func (r *pageRecorder) SetTitle(string) {}

func (r *pageRecorder) Render(p navigator.Page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = append(r.pages, p)
}

func (r *pageRecorder) ShowError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *pageRecorder) last() navigator.Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pages[len(r.pages)-1]
}

func TestBrowseSession(t *testing.T) {
	ctx := context.Background()
	dsn := helpers.StartPostgres(t)
	completer := helpers.NewScriptedCompleter(homeMarkup, contactMarkup)
	p, srv := helpers.StartServer(t, dsn, completer)

	cacheDB, err := sql.Open("sqlite", "file:e2e_pages?mode=memory&cache=shared")
	require.NoError(t, err)
	cacheDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = cacheDB.Close() })

	store := sqlstore.New(cacheDB, sqlstore.Config{})
	require.NoError(t, store.EnsureSchema(ctx))

	display := &pageRecorder{}
	nav := navigator.New(
		client.New(client.Config{BaseURL: srv.URL}),
		pagecache.New(nil, store),
		display,
	)

	// First page: fences stripped, cached under Home.
	require.NoError(t, nav.Start(ctx))
	home := display.last()
	assert.Equal(t, pagecache.HomeKey, home.Key)
	assert.Equal(t, "Harbor Cafe", home.Title)
	assert.NotContains(t, home.HTML, "```")
	require.Len(t, home.Actions, 1)

	// Navigation: think block stripped, cached under the link's path.
	require.NoError(t, nav.Activate(ctx, home.Actions[0]))
	contact := display.last()
	assert.Equal(t, "contact_us", contact.Key)
	assert.NotContains(t, contact.HTML, "<think>")

	// Back to Home: served from the cache without a third completion.
	require.Len(t, contact.Actions, 1)
	require.NoError(t, nav.Activate(ctx, contact.Actions[0]))
	assert.Equal(t, pagecache.HomeKey, display.last().Key)
	assert.Equal(t, 2, completer.Calls())

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		pagecache.DefaultPrefix + pagecache.HomeKey,
		pagecache.DefaultPrefix + "contact_us",
	}, keys)

	// The server kept one context for the session and logged both generations.
	gc, ok := p.Sessions().Get(nav.SessionID())
	require.True(t, ok)
	assert.NotEmpty(t, gc.InitialPrompt)

	resp, err := http.Get(srv.URL + "/api/v1/generations?session_id=" + nav.SessionID()) //nolint:noctx // test
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Data []audit.Event `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Data, 2)

	kinds := []string{list.Data[0].Kind, list.Data[1].Kind}
	assert.ElementsMatch(t, []string{generate.KindInitial, generate.KindNavigation}, kinds)
	for _, e := range list.Data {
		assert.True(t, e.Success)
		assert.Equal(t, "scripted:e2e", e.Model)
	}
	assert.Empty(t, display.errors)
}
