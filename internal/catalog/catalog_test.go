package catalog

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/fitbot/internal/store"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	r := NewRepository(store.New(db))
	require.NoError(t, r.EnsureSchema(context.Background()))
	return r
}

func TestSeedThenLoadAll(t *testing.T) {
	r := testRepository(t)
	ctx := context.Background()

	require.NoError(t, r.Seed(ctx, SampleProducts()))

	products, err := r.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 4)

	// Insertion order is preserved and ids are not exposed.
	assert.Equal(t, "ProteinBar", products[0].Title)
	assert.Equal(t, "Shaker", products[3].Title)
	assert.EqualValues(t, 100, products[0].Price)
}

func TestSeedIsIdempotent(t *testing.T) {
	r := testRepository(t)
	ctx := context.Background()

	require.NoError(t, r.Seed(ctx, SampleProducts()))
	require.NoError(t, r.Seed(ctx, SampleProducts()))

	products, err := r.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 4)
}

func TestLoadAllEmptyCatalog(t *testing.T) {
	r := testRepository(t)

	products, err := r.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}
