// Package store provides generic table-oriented persistence on top of sqlx.
// Repositories build their entity access from these primitives.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Store wraps a database handle with generic row operations. Table and
// column names are trusted internal constants; all values are passed through
// bound parameters.
type Store struct {
	db *sqlx.DB
}

// New wraps the given database handle. The caller owns the handle lifecycle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// EnsureTable creates the table with the given column schema if it does not
// exist yet.
func (s *Store) EnsureTable(ctx context.Context, table, schema string) error {
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, schema)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure table %s: %w", table, err)
	}
	return nil
}

// Insert adds one row and returns the id assigned by the store.
func (s *Store) Insert(ctx context.Context, table string, columns []string, values ...any) (int64, error) {
	if len(columns) == 0 || len(columns) != len(values) {
		return 0, fmt.Errorf("insert into %s: %d columns for %d values", table, len(columns), len(values))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders,
	)

	res, err := s.db.ExecContext(ctx, query, values...)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert into %s: last insert id: %w", table, err)
	}
	return id, nil
}

// DeleteWhere removes rows matching the condition and reports how many were
// removed. An empty condition clears the table.
func (s *Store) DeleteWhere(ctx context.Context, table, cond string, args ...any) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s", table)
	if cond != "" {
		query += " WHERE " + cond
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete from %s: rows affected: %w", table, err)
	}
	return n, nil
}

// FetchWhere selects rows matching the condition in storage order. The
// caller must close the returned rows.
func (s *Store) FetchWhere(ctx context.Context, table, cond string, args ...any) (*sqlx.Rows, error) {
	query := fmt.Sprintf("SELECT * FROM %s", table)
	if cond != "" {
		query += " WHERE " + cond
	}
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch from %s: %w", table, err)
	}
	return rows, nil
}
