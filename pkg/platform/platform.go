package platform

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/lib/pq" // postgres driver

	"github.com/achneerov/dreamrender/pkg/api"
	"github.com/achneerov/dreamrender/pkg/audit"
	auditpostgres "github.com/achneerov/dreamrender/pkg/audit/postgres"
	"github.com/achneerov/dreamrender/pkg/database/migrate"
	"github.com/achneerov/dreamrender/pkg/generate"
	"github.com/achneerov/dreamrender/pkg/health"
	"github.com/achneerov/dreamrender/pkg/images"
	"github.com/achneerov/dreamrender/pkg/keywords"
	"github.com/achneerov/dreamrender/pkg/llm"
	"github.com/achneerov/dreamrender/pkg/llm/gemini"
	"github.com/achneerov/dreamrender/pkg/llm/openai"
	"github.com/achneerov/dreamrender/pkg/middleware"
	"github.com/achneerov/dreamrender/pkg/session"
)

// gaugeSessions is the readiness gauge reporting live generation contexts.
const gaugeSessions = "sessions"

// sweeper is a session store with a background reaper.
type sweeper interface {
	StartCleanupRoutine()
	Close() error
}

// Platform is the main server facade.
type Platform struct {
	config *Config

	// Core components
	lifecycle *Lifecycle
	health    *health.Checker
	handler   *api.Handler

	// Collaborators
	completer llm.Completer
	images    images.Searcher
	keywords  keywords.Source
	sessions  session.Store

	// Generation
	orchestrator *generate.Orchestrator

	// Audit
	db           *sql.DB
	ownsDB       bool
	auditLogger  audit.Logger
	auditEnabled bool
}

// New creates a new platform instance.
func New(opts ...Option) (*Platform, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Config == nil {
		return nil, errors.New("config is required")
	}
	if err := options.Config.Validate(); err != nil {
		return nil, err
	}

	p := &Platform{
		config:    options.Config,
		lifecycle: NewLifecycle(),
		health:    health.NewChecker(),
	}

	if err := p.initializeComponents(options); err != nil {
		p.closeDB()
		return nil, fmt.Errorf("initializing components: %w", err)
	}

	return p, nil
}

// initializeComponents initializes all platform components.
func (p *Platform) initializeComponents(opts *Options) error {
	if err := p.initCollaborators(opts); err != nil {
		return err
	}
	p.initSessions(opts)
	if err := p.initAudit(opts); err != nil {
		return err
	}
	return p.finalizeSetup()
}

// initCollaborators sets up the model, image and keyword sources.
func (p *Platform) initCollaborators(opts *Options) error {
	var err error
	if opts.Completer != nil {
		p.completer = opts.Completer
	} else if p.completer, err = p.createCompleter(); err != nil {
		return fmt.Errorf("creating completer: %w", err)
	}

	if opts.ImageSearcher != nil {
		p.images = opts.ImageSearcher
	} else {
		if p.config.Images.APIKey == "" {
			slog.Warn("images: no API key configured; image search requests will fail")
		}
		p.images = images.NewPixabay(images.PixabayConfig{
			APIKey:  p.config.Images.APIKey,
			BaseURL: p.config.Images.BaseURL,
		})
	}

	if opts.Keywords != nil {
		p.keywords = opts.Keywords
	} else if p.keywords, err = p.loadKeywords(); err != nil {
		return fmt.Errorf("loading keywords: %w", err)
	}
	return nil
}

// createCompleter builds the completer selected by model.provider.
func (p *Platform) createCompleter() (llm.Completer, error) {
	m := p.config.Model
	switch m.Provider {
	case ProviderGemini:
		return gemini.New(context.Background(), gemini.Config{
			APIKey: m.APIKey,
			Model:  m.Model,
		})
	case ProviderOpenAI:
		return openai.New(openai.Config{
			APIKey:  m.APIKey,
			BaseURL: m.BaseURL,
			Model:   m.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported model provider %q", m.Provider)
	}
}

func (p *Platform) loadKeywords() (keywords.Source, error) {
	if p.config.Keywords.Path == "" {
		return keywords.Default()
	}
	return keywords.Load(p.config.Keywords.Path)
}

// initSessions sets up the session store and its reaper.
func (p *Platform) initSessions(opts *Options) {
	if opts.SessionStore != nil {
		p.sessions = opts.SessionStore
	} else {
		p.sessions = session.NewMemoryStore(
			session.WithTTL(p.config.Sessions.TTL),
			session.WithSweepInterval(p.config.Sessions.SweepInterval),
		)
	}

	if s, ok := p.sessions.(sweeper); ok {
		p.lifecycle.Append(Hook{
			Name: "sessions",
			Start: func(context.Context) error {
				s.StartCleanupRoutine()
				return nil
			},
			Stop: func(context.Context) error { return s.Close() },
		})
	}
	p.health.AddGauge(gaugeSessions, p.sessions.Len)
}

// initAudit sets up the generation log. A disabled log records nothing and
// the generation listing route is not served.
func (p *Platform) initAudit(opts *Options) error {
	if opts.AuditLogger != nil {
		p.auditLogger = opts.AuditLogger
		p.auditEnabled = true
		p.lifecycle.AppendCloser("audit", opts.AuditLogger)
		return nil
	}

	if !p.config.Audit.Enabled {
		p.auditLogger = audit.NoopLogger{}
		return nil
	}

	if err := p.openDB(opts.DB); err != nil {
		return err
	}
	if err := migrate.Run(p.db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	store := auditpostgres.New(p.db, auditpostgres.Config{
		RetentionDays: p.config.Audit.RetentionDays,
	})
	p.auditLogger = store
	p.auditEnabled = true

	interval := p.config.Audit.CleanupInterval
	p.lifecycle.Append(Hook{
		Name: "audit",
		Start: func(context.Context) error {
			store.StartCleanupRoutine(interval)
			return nil
		},
		Stop: func(context.Context) error { return store.Close() },
	})
	return nil
}

// openDB uses the provided connection or opens one from database.dsn.
func (p *Platform) openDB(db *sql.DB) error {
	if db != nil {
		p.db = db
		return nil
	}

	db, err := sql.Open("postgres", p.config.Database.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(p.config.Database.MaxOpenConns)

	p.db = db
	p.ownsDB = true
	return nil
}

func (p *Platform) closeDB() {
	if p.ownsDB && p.db != nil {
		if err := p.db.Close(); err != nil {
			slog.Warn("closing database", "error", err)
		}
		p.db = nil
	}
}

// finalizeSetup builds the orchestrator and the HTTP handler.
func (p *Platform) finalizeSetup() error {
	orch, err := generate.New(generate.Config{
		Completer: p.completer,
		Sessions:  p.sessions,
		Keywords:  p.keywords,
		Audit:     p.auditLogger,
		Params: generate.Params{
			Temperature: p.config.Model.Temperature,
			TopP:        p.config.Model.TopP,
			MaxTokens:   p.config.Model.MaxTokens,
		},
	})
	if err != nil {
		return fmt.Errorf("creating orchestrator: %w", err)
	}
	p.orchestrator = orch

	deps := api.Deps{
		Generator: orch,
		Images:    p.images,
		Health:    p.health,
		Chain:     middleware.Default(),
	}
	if p.auditEnabled {
		deps.Audit = p.auditLogger
	}
	p.handler = api.NewHandler(deps)

	if p.ownsDB {
		db := p.db
		p.lifecycle.AppendCloser("database", db)
	}

	// Registered last so readiness is withdrawn first on shutdown.
	p.lifecycle.Append(Hook{
		Name: "health",
		Start: func(context.Context) error {
			p.health.SetReady()
			return nil
		},
		Stop: func(context.Context) error {
			p.health.SetDraining()
			return nil
		},
	})
	return nil
}

// Start starts the background components and marks the server ready.
func (p *Platform) Start(ctx context.Context) error {
	if err := p.lifecycle.Start(ctx); err != nil {
		return fmt.Errorf("starting platform: %w", err)
	}
	slog.Info("platform started",
		"model", p.completer.Name(),
		"audit", p.auditEnabled,
	)
	return nil
}

// Stop withdraws readiness and stops the background components.
func (p *Platform) Stop(ctx context.Context) error {
	return p.lifecycle.Stop(ctx)
}

// Close releases every resource held by the platform. It is safe to call
// after Stop.
func (p *Platform) Close() error {
	if p.lifecycle.IsStarted() {
		return p.Stop(context.Background())
	}
	p.closeDB()
	return nil
}

// Config returns the platform configuration.
func (p *Platform) Config() *Config {
	return p.config
}

// Handler returns the HTTP handler serving the API.
func (p *Platform) Handler() http.Handler {
	return p.handler
}

// Health returns the health checker.
func (p *Platform) Health() *health.Checker {
	return p.health
}

// Sessions returns the session context store.
func (p *Platform) Sessions() session.Store {
	return p.sessions
}

// Orchestrator returns the generation orchestrator.
func (p *Platform) Orchestrator() *generate.Orchestrator {
	return p.orchestrator
}

// AuditEnabled reports whether generations are being logged.
func (p *Platform) AuditEnabled() bool {
	return p.auditEnabled
}
