package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/achneerov/dreamrender/pkg/client"
)

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)

	assert.Equal(t, client.DefaultBaseURL, opts.serverURL)
	assert.Equal(t, defaultCachePath(), opts.cachePath)
	assert.Equal(t, "dreamrender-browse.log", opts.logPath)
	assert.Equal(t, "auto", opts.style)
	assert.False(t, opts.showVersion)
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-server", "http://dream:3000", "-cache", "", "-log", "x.log", "-style", "dark"})
	require.NoError(t, err)

	assert.Equal(t, "http://dream:3000", opts.serverURL)
	assert.Empty(t, opts.cachePath)
	assert.Equal(t, "x.log", opts.logPath)
	assert.Equal(t, "dark", opts.style)
}

func TestOpenPageCache_Memory(t *testing.T) {
	cache, closer, err := openPageCache(context.Background(), "")
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	assert.False(t, cache.Persistent())
}

func TestOpenPageCache_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "pages.db")

	cache, closer, err := openPageCache(ctx, path)
	require.NoError(t, err)
	require.True(t, cache.Persistent())

	require.NoError(t, cache.Put(ctx, "Home", "<h1>Home</h1>"))
	require.NoError(t, closer.Close())

	reopened, closer, err := openPageCache(ctx, path)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	html, ok := reopened.Get(ctx, "Home")
	assert.True(t, ok, "page persisted across runs")
	assert.Equal(t, "<h1>Home</h1>", html)
}

func TestOpenLog(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "browse.log")
	closer, err := openLog(path)
	require.NoError(t, err)

	slog.Info("logged to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "logged to file")

	discard, err := openLog("")
	require.NoError(t, err)
	assert.NoError(t, discard.Close())
}
