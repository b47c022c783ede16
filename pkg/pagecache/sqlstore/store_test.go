package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T, cfg Config) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := New(db, cfg)
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s, mock
}

func TestNewDefaults(t *testing.T) {
	s := New(nil, Config{})
	assert.Equal(t, DefaultTable, s.table)
}

func TestEnsureSchema(t *testing.T) {
	s, mock := newMockStore(t, Config{})
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS dreamrender_pages`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s, mock := newMockStore(t, Config{})
		mock.ExpectQuery(`SELECT html FROM dreamrender_pages WHERE page_key = \?`).
			WithArgs("dreamrender_page_Home").
			WillReturnRows(sqlmock.NewRows([]string{"html"}).AddRow("<h1>hi</h1>"))

		html, ok, err := s.Get(context.Background(), "dreamrender_page_Home")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "<h1>hi</h1>", html)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newMockStore(t, Config{})
		mock.ExpectQuery(`SELECT html FROM dreamrender_pages`).
			WillReturnRows(sqlmock.NewRows([]string{"html"}))

		_, ok, err := s.Get(context.Background(), "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("error", func(t *testing.T) {
		s, mock := newMockStore(t, Config{})
		mock.ExpectQuery(`SELECT html FROM dreamrender_pages`).
			WillReturnError(errors.New("disk I/O error"))

		_, _, err := s.Get(context.Background(), "k")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading page")
	})
}

func TestSetUpserts(t *testing.T) {
	s, mock := newMockStore(t, Config{Table: "pages", Placeholder: sq.Dollar})
	mock.ExpectExec(`INSERT INTO pages \(page_key,html,updated_at\) VALUES \(\$1,\$2,\$3\) ON CONFLICT \(page_key\) DO UPDATE`).
		WithArgs("k", "<p>v</p>", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Set(context.Background(), "k", "<p>v</p>"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetError(t *testing.T) {
	s, mock := newMockStore(t, Config{})
	mock.ExpectExec(`INSERT INTO dreamrender_pages`).
		WillReturnError(errors.New("database or disk is full"))

	err := s.Set(context.Background(), "k", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing page")
}

func TestDelete(t *testing.T) {
	s, mock := newMockStore(t, Config{})
	mock.ExpectExec(`DELETE FROM dreamrender_pages WHERE page_key = \?`).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Delete(context.Background(), "k"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeys(t *testing.T) {
	s, mock := newMockStore(t, Config{})
	mock.ExpectQuery(`SELECT page_key FROM dreamrender_pages ORDER BY updated_at, page_key`).
		WillReturnRows(sqlmock.NewRows([]string{"page_key"}).AddRow("a").AddRow("b"))

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeysScanError(t *testing.T) {
	s, mock := newMockStore(t, Config{})
	mock.ExpectQuery(`SELECT page_key FROM dreamrender_pages`).
		WillReturnRows(sqlmock.NewRows([]string{"page_key"}).AddRow("a").RowError(0, errors.New("bad row")))

	_, err := s.Keys(context.Background())
	assert.Error(t, err)
}
