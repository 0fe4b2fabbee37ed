package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the slice of pgx shared by pgx.Tx and *pgxpool.Pool that the
// repositories run on.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// session is the write-path database handle owned by one unit of work. While
// a transaction is open all statements run on it; after commit the session
// falls back to the pool so post-commit refreshes still work. Staged writes
// accumulate until flush, which runs before commit and before any read on
// the same session.
type session struct {
	pool    *pgxpool.Pool
	tx      pgx.Tx
	pending []func(ctx context.Context) error
}

func (s *session) q() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.pool
}

func (s *session) stage(fn func(ctx context.Context) error) {
	s.pending = append(s.pending, fn)
}

func (s *session) flush(ctx context.Context) error {
	for _, fn := range s.pending {
		if err := fn(ctx); err != nil {
			s.pending = nil
			return err
		}
	}
	s.pending = nil
	return nil
}
