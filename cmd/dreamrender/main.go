// Package main provides the entry point for the dreamrender server.
//
//	@title			DreamRender API
//	@version		1.0
//	@description	On-demand generation of an infinite, navigable website.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/achneerov/dreamrender/internal/apidocs" // registers the swagger document
	"github.com/achneerov/dreamrender/internal/server"
	"github.com/achneerov/dreamrender/pkg/platform"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	configPath  string
	address     string
	showVersion bool
}

func parseFlags(args []string) (serverOptions, error) {
	opts := serverOptions{}
	fs := flag.NewFlagSet("dreamrender", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (defaults to environment variables)")
	fs.StringVar(&opts.address, "address", "", "Listen address, overrides the configured one")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func loadConfig(opts serverOptions) (*platform.Config, error) {
	if opts.configPath != "" {
		return platform.LoadConfig(opts.configPath)
	}
	return platform.ConfigFromEnv(), nil
}

func applyConfigOverrides(cfg *platform.Config, opts serverOptions) {
	if opts.address != "" {
		cfg.Server.Address = opts.address
	}
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
		fmt.Printf("dreamrender version %s\n", server.Version)
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyConfigOverrides(cfg, opts)
	slog.SetDefault(server.NewLogger(cfg.Logging, os.Stderr))

	ctx, stop := setupSignalHandler()
	defer stop()

	p, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer func() { _ = p.Close() }()

	ln, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Address, err)
	}

	return server.Serve(ctx, p, ln)
}
