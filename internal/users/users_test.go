package users

import (
	"context"
	"errors"
	"fmt"
	"sync"
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

func TestAddSetsStartBalance(t *testing.T) {
	r := testRepository(t)

	u, err := r.Add(context.Background(), "John", "john@example.com", 30)
	require.NoError(t, err)

	assert.Equal(t, "John", u.Username)
	assert.Equal(t, 30, u.Age)
	assert.EqualValues(t, StartBalance, u.Balance)
	assert.NotZero(t, u.ID)
}

func TestExists(t *testing.T) {
	r := testRepository(t)
	ctx := context.Background()

	ok, err := r.Exists(ctx, "John")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.Add(ctx, "John", "john@example.com", 30)
	require.NoError(t, err)

	ok, err = r.Exists(ctx, "John")
	require.NoError(t, err)
	assert.True(t, ok)

	// Exact match only.
	ok, err = r.Exists(ctx, "john")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddRejectsDuplicateUsername(t *testing.T) {
	r := testRepository(t)
	ctx := context.Background()

	_, err := r.Add(ctx, "John", "first@example.com", 30)
	require.NoError(t, err)

	_, err = r.Add(ctx, "John", "second@example.com", 25)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestConcurrentAddsKeepUsernameUnique(t *testing.T) {
	r := testRepository(t)
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		okCt int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Add(ctx, "Jane", fmt.Sprintf("jane%d@example.com", i), 20+i)
			if err == nil {
				mu.Lock()
				okCt++
				mu.Unlock()
			} else if !errors.Is(err, ErrUsernameTaken) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, okCt, "exactly one registration may succeed")
}
