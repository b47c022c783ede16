// Package sqlstore provides a database/sql backed persistent layer for the
// page cache.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/achneerov/dreamrender/pkg/pagecache"
)

// DefaultTable is the table holding cached pages.
const DefaultTable = "dreamrender_pages"

// Config configures a Store.
type Config struct {
	// Table overrides DefaultTable.
	Table string

	// Placeholder selects the bind-variable style. Defaults to sq.Question,
	// which suits SQLite and MySQL. Use sq.Dollar for PostgreSQL.
	Placeholder sq.PlaceholderFormat
}

// Store implements pagecache.Storage on a SQL table.
type Store struct {
	db    *sql.DB
	table string
	sb    sq.StatementBuilderType
	now   func() time.Time
}

// New creates a Store on db.
func New(db *sql.DB, cfg Config) *Store {
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.Placeholder == nil {
		cfg.Placeholder = sq.Question
	}
	return &Store{
		db:    db,
		table: cfg.Table,
		sb:    sq.StatementBuilder.PlaceholderFormat(cfg.Placeholder),
		now:   time.Now,
	}
}

// EnsureSchema creates the page table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    page_key   TEXT PRIMARY KEY,
    html       TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("creating %s: %w", s.table, err)
	}
	return nil
}

// Get returns the page stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.sb.Select("html").
		From(s.table).
		Where(sq.Eq{"page_key": key}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("building select query: %w", err)
	}

	var html string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&html)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading page: %w", err)
	}
	return html, true, nil
}

// Set upserts the page stored under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	query, args, err := s.sb.Insert(s.table).
		Columns("page_key", "html", "updated_at").
		Values(key, value, s.now().UTC()).
		Suffix("ON CONFLICT (page_key) DO UPDATE SET html = excluded.html, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	return nil
}

// Delete removes the page stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	query, args, err := s.sb.Delete(s.table).
		Where(sq.Eq{"page_key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	return nil
}

// Keys lists every stored key in write order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	query, args, err := s.sb.Select("page_key").
		From(s.table).
		OrderBy("updated_at", "page_key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building keys query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning page key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pages: %w", err)
	}
	return keys, nil
}

// Verify interface compliance.
var _ pagecache.Storage = (*Store)(nil)
