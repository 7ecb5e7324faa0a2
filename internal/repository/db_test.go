package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	v, err := s.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	for _, table := range []string{"users", "todos"} {
		var name string
		err := s.db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))

	v, err := s.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestOpen_ReopenFileKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "smarttask.db")

	s, err := Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, NewUserRepository(s).Create(ctx, newUser("a@example.com")))
	require.NoError(t, s.Close())

	s, err = Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	defer s.Close()

	n, err := NewUserRepository(s).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpen_Unavailable(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "postgres", "whatever")
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")
	_, err = Open(ctx, DriverSQLite, missing)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
