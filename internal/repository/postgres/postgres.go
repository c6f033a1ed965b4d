// Package postgres maps the Repository contract onto a relational store
// through pgx. Every operation is a call-scoped unit of work: it runs its
// statements, and multi-step writes open a transaction that commits before
// the method returns or rolls back on any failure.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"pet-feed-backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is the query surface shared by the pool and an open transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the Postgres-backed store.
type Repository struct {
	db *pgxpool.Pool
}

var _ repository.Repository = (*Repository)(nil)

// New creates a Postgres repository on an established pool.
func New(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// inTx runs fn inside a transaction, rolling back on error.
func (r *Repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Postgres error codes used to translate constraint violations into domain
// errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func isPgErr(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// postExists guards lookups keyed by post id so an unknown post surfaces as
// ErrNotFound instead of an empty result.
func (r *Repository) postExists(ctx context.Context, postID int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check post existence: %w", err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return nil
}
