package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the querying surface shared by *pgxpool.Pool and pgx.Tx, so a
// store method can run against the pool or inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rel builds a schema-qualified, quoted relation name. Every store call
// takes the tenant schema explicitly; there is no process-wide default.
func rel(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}

// uniqueViolation returns the violated constraint name for a 23505
// error, or "" for anything else.
func uniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}

// fkViolation reports whether err is a 23503 foreign key violation, a
// reference to a row that does not exist in this schema.
func fkViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// Atomic is the single primitive behind every multi-row session
// transition: the unit of work commits fully or not at all.
type Atomic struct {
	pool *pgxpool.Pool
}

func NewAtomic(pool *pgxpool.Pool) *Atomic {
	return &Atomic{pool: pool}
}

func (a *Atomic) Within(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
