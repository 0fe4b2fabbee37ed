package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

// mapping describes how one entity type maps onto its relation: the columns
// to select, the filter-DSL field whitelist, and the staged write statements.
type mapping[T any] struct {
	table      string
	selectCols string
	// fields maps DSL field names to columns. Conditions naming a field
	// outside this map are skipped.
	fields map[string]string
	id     func(*T) string
	insert func(ctx context.Context, db querier, item *T) error
	update func(ctx context.Context, db querier, item *T) error
	scan   func(row pgx.Row) (*T, error)
}

func (m *mapping[T]) selectSQL() string {
	return "SELECT " + m.selectCols + " FROM " + m.table
}

// Repo is the write-path repository bound to one unit-of-work session.
// Inserts and updates are staged on the session and flushed before commit
// and before any read, so reads observe the session's own writes.
type Repo[T any] struct {
	s *session
	m *mapping[T]
}

var _ repository.Repository[struct{}] = (*Repo[struct{}])(nil)

func (r *Repo[T]) Add(ctx context.Context, item *T) error {
	r.s.stage(func(ctx context.Context) error {
		return r.m.insert(ctx, r.s.q(), item)
	})
	return nil
}

func (r *Repo[T]) AddAll(ctx context.Context, items []*T) error {
	for _, item := range items {
		if err := r.Add(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo[T]) Update(ctx context.Context, item *T) error {
	r.s.stage(func(ctx context.Context) error {
		return r.m.update(ctx, r.s.q(), item)
	})
	return nil
}

func (r *Repo[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := r.s.flush(ctx); err != nil {
		return nil, err
	}
	return getByID(ctx, r.s.q(), r.m, id)
}

func (r *Repo[T]) GetBy(ctx context.Context, filters repository.Filters) (*T, error) {
	if err := r.s.flush(ctx); err != nil {
		return nil, err
	}
	return getBy(ctx, r.s.q(), r.m, filters)
}

func (r *Repo[T]) GetAll(ctx context.Context, filters repository.Filters) ([]*T, error) {
	if err := r.s.flush(ctx); err != nil {
		return nil, err
	}
	return getAll(ctx, r.s.q(), r.m, filters)
}

func (r *Repo[T]) Remove(ctx context.Context, id string) error {
	if err := r.s.flush(ctx); err != nil {
		return err
	}
	// Absent rows are a silent no-op, so the affected count is not checked.
	_, err := r.s.q().Exec(ctx, "DELETE FROM "+r.m.table+" WHERE id = $1", id)
	return err
}

func (r *Repo[T]) Refresh(ctx context.Context, item *T) error {
	if err := r.s.flush(ctx); err != nil {
		return err
	}
	fresh, err := getByID(ctx, r.s.q(), r.m, r.m.id(item))
	if err != nil {
		return err
	}
	if fresh == nil {
		return apperrors.Newf(apperrors.KindItemNotFound, "cannot refresh %s %q: row gone", r.m.table, r.m.id(item))
	}
	*item = *fresh
	return nil
}

// Reader is the read-path counterpart running directly on the pool in
// autocommit mode. It never joins a write transaction.
type Reader[T any] struct {
	db querier
	m  *mapping[T]
}

var _ repository.Pager[struct{}] = (*Reader[struct{}])(nil)

func (r *Reader[T]) Get(ctx context.Context, id string) (*T, error) {
	return getByID(ctx, r.db, r.m, id)
}

func (r *Reader[T]) GetBy(ctx context.Context, filters repository.Filters) (*T, error) {
	return getBy(ctx, r.db, r.m, filters)
}

func (r *Reader[T]) GetAll(ctx context.Context, filters repository.Filters) ([]*T, error) {
	return getAll(ctx, r.db, r.m, filters)
}

func (r *Reader[T]) Paginate(ctx context.Context, filters repository.Filters, ordering []repository.Ordering, offset, size int) ([]*T, error) {
	conds, err := repository.ParseFilters(filters)
	if err != nil {
		return nil, err
	}
	where, args, err := compileFilters(conds, r.m.fields, 1)
	if err != nil {
		return nil, err
	}

	orderBy := compileOrdering(ordering, r.m.fields)
	n := len(args)
	sql := fmt.Sprintf("%s%s%s OFFSET $%d LIMIT $%d", r.m.selectSQL(), where, orderBy, n+1, n+2)
	args = append(args, offset, size)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, r.m)
}

func (r *Reader[T]) Count(ctx context.Context, filters repository.Filters) (int64, error) {
	conds, err := repository.ParseFilters(filters)
	if err != nil {
		return 0, err
	}
	where, args, err := compileFilters(conds, r.m.fields, 1)
	if err != nil {
		return 0, err
	}
	var total int64
	err = r.db.QueryRow(ctx, "SELECT count(*) FROM "+r.m.table+where, args...).Scan(&total)
	return total, err
}

// compileOrdering renders an ORDER BY over whitelisted fields, always ending
// on id so pages are stable.
func compileOrdering(ordering []repository.Ordering, fields map[string]string) string {
	var parts []string
	for _, o := range ordering {
		col, known := fields[o.Field]
		if !known || col == "id" {
			continue
		}
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		parts = append(parts, col+dir)
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

func getByID[T any](ctx context.Context, db querier, m *mapping[T], id string) (*T, error) {
	row := db.QueryRow(ctx, m.selectSQL()+" WHERE id = $1", id)
	item, err := m.scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func getBy[T any](ctx context.Context, db querier, m *mapping[T], filters repository.Filters) (*T, error) {
	conds, err := repository.ParseFilters(filters)
	if err != nil {
		return nil, err
	}
	where, args, err := compileFilters(conds, m.fields, 1)
	if err != nil {
		return nil, err
	}
	// Lowest id wins when several rows match.
	row := db.QueryRow(ctx, m.selectSQL()+where+" ORDER BY id ASC LIMIT 1", args...)
	item, err := m.scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func getAll[T any](ctx context.Context, db querier, m *mapping[T], filters repository.Filters) ([]*T, error) {
	conds, err := repository.ParseFilters(filters)
	if err != nil {
		return nil, err
	}
	where, args, err := compileFilters(conds, m.fields, 1)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, m.selectSQL()+where+" ORDER BY id ASC", args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, m)
}

func collect[T any](rows pgx.Rows, m *mapping[T]) ([]*T, error) {
	defer rows.Close()
	var items []*T
	for rows.Next() {
		item, err := m.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
