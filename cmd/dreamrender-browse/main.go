// Package main provides the terminal client that browses a dreamrender
// server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/achneerov/dreamrender/internal/browser"
	"github.com/achneerov/dreamrender/internal/server"
	"github.com/achneerov/dreamrender/pkg/client"
	"github.com/achneerov/dreamrender/pkg/navigator"
	"github.com/achneerov/dreamrender/pkg/pagecache"
	"github.com/achneerov/dreamrender/pkg/pagecache/sqlstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type browseOptions struct {
	serverURL   string
	cachePath   string
	logPath     string
	style       string
	showVersion bool
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dreamrender", "pages.db")
}

func parseFlags(args []string) (browseOptions, error) {
	opts := browseOptions{}
	fs := flag.NewFlagSet("dreamrender-browse", flag.ContinueOnError)
	fs.StringVar(&opts.serverURL, "server", client.DefaultBaseURL, "Base URL of the dreamrender server")
	fs.StringVar(&opts.cachePath, "cache", defaultCachePath(), "SQLite file for the persistent page cache (empty keeps pages in memory only)")
	fs.StringVar(&opts.logPath, "log", "dreamrender-browse.log", "Log file (the terminal is owned by the browser)")
	fs.StringVar(&opts.style, "style", "auto", "Page style: auto, dark, light, notty")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

// openLog directs the default logger to path. An empty path discards logs.
func openLog(path string) (io.Closer, error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return io.NopCloser(nil), nil
	}
	// #nosec G304 -- path is from CLI args
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return f, nil
}

// openPageCache builds the page cache. With a path, pages also persist in a
// SQLite file; the returned closer releases it.
func openPageCache(ctx context.Context, path string) (*pagecache.Cache, io.Closer, error) {
	if path == "" {
		return pagecache.New(nil, nil), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("creating cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening page cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := sqlstore.New(db, sqlstore.Config{})
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("preparing page cache: %w", err)
	}
	return pagecache.New(nil, store), db, nil
}

func run() error {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if opts.showVersion {
		fmt.Printf("dreamrender-browse version %s\n", server.Version)
		return nil
	}

	logFile, err := openLog(opts.logPath)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache, cacheDB, err := openPageCache(ctx, opts.cachePath)
	if err != nil {
		return err
	}
	defer func() { _ = cacheDB.Close() }()

	display := browser.NewDisplay()
	nav := navigator.New(
		client.New(client.Config{BaseURL: opts.serverURL}),
		cache,
		display,
	)
	slog.Info("browse session started", "session_id", nav.SessionID(), "server", opts.serverURL)

	return browser.Run(ctx, nav, display, browser.WithStyle(opts.style))
}
