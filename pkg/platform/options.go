package platform

import (
	"database/sql"

	"github.com/achneerov/dreamrender/pkg/audit"
	"github.com/achneerov/dreamrender/pkg/images"
	"github.com/achneerov/dreamrender/pkg/keywords"
	"github.com/achneerov/dreamrender/pkg/llm"
	"github.com/achneerov/dreamrender/pkg/session"
)

// Options configures the platform.
type Options struct {
	// Config is the platform configuration.
	Config *Config

	// DB is the audit database (optional, opened from database.dsn if not provided).
	DB *sql.DB

	// Completer (optional, will be created from config if not provided).
	Completer llm.Completer

	// ImageSearcher (optional, will be created from config if not provided).
	ImageSearcher images.Searcher

	// Keywords (optional, loaded from keywords.path or the embedded list).
	Keywords keywords.Source

	// AuditLogger (optional, will be created from config if not provided).
	AuditLogger audit.Logger

	// SessionStore (optional, an in-memory store is created if not provided).
	SessionStore session.Store
}

// Option is a functional option for configuring the platform.
type Option func(*Options)

// WithConfig sets the configuration.
func WithConfig(cfg *Config) Option {
	return func(o *Options) {
		o.Config = cfg
	}
}

// WithDB sets the database connection.
func WithDB(db *sql.DB) Option {
	return func(o *Options) {
		o.DB = db
	}
}

// WithCompleter sets the model completer.
func WithCompleter(c llm.Completer) Option {
	return func(o *Options) {
		o.Completer = c
	}
}

// WithImageSearcher sets the image search provider.
func WithImageSearcher(s images.Searcher) Option {
	return func(o *Options) {
		o.ImageSearcher = s
	}
}

// WithKeywords sets the theme keyword source.
func WithKeywords(k keywords.Source) Option {
	return func(o *Options) {
		o.Keywords = k
	}
}

// WithAuditLogger sets the generation audit logger.
func WithAuditLogger(l audit.Logger) Option {
	return func(o *Options) {
		o.AuditLogger = l
	}
}

// WithSessionStore sets the session context store.
func WithSessionStore(s session.Store) Option {
	return func(o *Options) {
		o.SessionStore = s
	}
}
