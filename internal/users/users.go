// Package users is the insert-only registry of registered users.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/m3rciful/fitbot/core/logger"
	"github.com/m3rciful/fitbot/internal/store"
)

const (
	table = "Users"
	// schema mirrors migrations/0002_create_users.up.sql.
	schema = "id INTEGER PRIMARY KEY, username TEXT NOT NULL, email TEXT NOT NULL, age INTEGER NOT NULL, balance INTEGER NOT NULL"

	// StartBalance is credited to every new user.
	StartBalance = 1000
)

// ErrUsernameTaken is returned when the username is already registered.
var ErrUsernameTaken = errors.New("username already taken")

// User is one registered user record.
type User struct {
	ID       int64
	Username string
	Email    string
	Age      int
	Balance  int64
}

// Repository registers users. The existence check and the insert are two
// store operations, so both run under the repository mutex to keep
// concurrent registrations of the same username from slipping past the
// check.
type Repository struct {
	mu    sync.Mutex
	store *store.Store
}

// NewRepository builds a user repository over the record store.
func NewRepository(s *store.Store) *Repository {
	return &Repository{store: s}
}

// EnsureSchema creates the Users table if it is missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	return r.store.EnsureTable(ctx, table, schema)
}

// Exists reports whether a user with the exact username is registered.
func (r *Repository) Exists(ctx context.Context, username string) (bool, error) {
	rows, err := r.store.FetchWhere(ctx, table, "username = ?", username)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	return rows.Next(), rows.Err()
}

// Add registers a new user with the fixed start balance. It returns
// ErrUsernameTaken if the username is already present.
func (r *Repository) Add(ctx context.Context, username, email string, age int) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	taken, err := r.Exists(ctx, username)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, fmt.Errorf("add user %q: %w", username, ErrUsernameTaken)
	}

	id, err := r.store.Insert(ctx, table,
		[]string{"username", "email", "age", "balance"},
		username, email, age, StartBalance,
	)
	if err != nil {
		return User{}, fmt.Errorf("add user %q: %w", username, err)
	}

	logger.Info(ctx, "service.users", "user.registered",
		slog.Int64("id", id),
		slog.String("username", logger.SanitizeLimit(username, 64)),
	)
	return User{
		ID:       id,
		Username: username,
		Email:    email,
		Age:      age,
		Balance:  StartBalance,
	}, nil
}
