package store

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)
	return New(db)
}

func TestEnsureTableIsIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureTable(ctx, "Items", "id INTEGER PRIMARY KEY, name TEXT NOT NULL"))
	require.NoError(t, s.EnsureTable(ctx, "Items", "id INTEGER PRIMARY KEY, name TEXT NOT NULL"))
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureTable(ctx, "Items", "id INTEGER PRIMARY KEY, name TEXT NOT NULL"))

	first, err := s.Insert(ctx, "Items", []string{"name"}, "one")
	require.NoError(t, err)
	second, err := s.Insert(ctx, "Items", []string{"name"}, "two")
	require.NoError(t, err)

	assert.Equal(t, first+1, second)
}

func TestInsertColumnValueMismatch(t *testing.T) {
	s := testStore(t)
	_, err := s.Insert(context.Background(), "Items", []string{"a", "b"}, "only-one")
	assert.Error(t, err)
}

func TestFetchWhereBindsValues(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureTable(ctx, "Items", "id INTEGER PRIMARY KEY, name TEXT NOT NULL"))
	_, err := s.Insert(ctx, "Items", []string{"name"}, "keep")
	require.NoError(t, err)
	_, err = s.Insert(ctx, "Items", []string{"name"}, "skip")
	require.NoError(t, err)

	rows, err := s.FetchWhere(ctx, "Items", "name = ?", "keep")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var row struct {
			ID   int64  `db:"id"`
			Name string `db:"name"`
		}
		require.NoError(t, rows.StructScan(&row))
		names = append(names, row.Name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"keep"}, names)

	// A value that only looks like SQL stays a bound value.
	rows, err = s.FetchWhere(ctx, "Items", "name = ?", "keep' OR '1'='1")
	require.NoError(t, err)
	defer rows.Close()
	assert.False(t, rows.Next())
}

func TestDeleteWhere(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureTable(ctx, "Items", "id INTEGER PRIMARY KEY, name TEXT NOT NULL"))
	for _, name := range []string{"a", "b", "b"} {
		_, err := s.Insert(ctx, "Items", []string{"name"}, name)
		require.NoError(t, err)
	}

	n, err := s.DeleteWhere(ctx, "Items", "name = ?", "b")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = s.DeleteWhere(ctx, "Items", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestInsertIntoMissingTableSurfacesError(t *testing.T) {
	s := testStore(t)
	_, err := s.Insert(context.Background(), "Nope", []string{"name"}, "x")
	assert.Error(t, err)
}
