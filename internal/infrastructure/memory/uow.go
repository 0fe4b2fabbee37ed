package memory

import (
	"context"
	"errors"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/entity"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

// UnitOfWork over the in-memory store. Writes apply to the collections as
// they happen (so reads observe the session's own writes, like the flushed
// SQL session) with an undo log that rollback and an uncommitted Close run
// in reverse.
type UnitOfWork struct {
	store  *Store
	open   bool
	undo   []func()
	events []message.Event
	users  *TxRepo[entity.User]
	failed *TxRepo[entity.FailedMessageLog]
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func NewUnitOfWorkFactory(store *Store) repository.UnitOfWorkFactory {
	return func() repository.UnitOfWork { return NewUnitOfWork(store) }
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.open {
		return errors.New("memory: unit of work already open")
	}
	u.open = true
	u.undo = nil
	u.events = nil
	u.users = &TxRepo[entity.User]{uow: u, c: u.store.users}
	u.failed = &TxRepo[entity.FailedMessageLog]{uow: u, c: u.store.failed}
	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if !u.open {
		return errors.New("memory: commit outside an open unit of work")
	}
	u.undo = nil
	return nil
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.undo = nil
	return nil
}

func (u *UnitOfWork) Close(ctx context.Context) error {
	if !u.open {
		return nil
	}
	err := u.Rollback(ctx)
	u.open = false
	u.users = nil
	u.failed = nil
	return err
}

func (u *UnitOfWork) Users() repository.Repository[entity.User] { return u.users }

func (u *UnitOfWork) FailedMessages() repository.Repository[entity.FailedMessageLog] {
	return u.failed
}

func (u *UnitOfWork) RecordEvent(evt message.Event) {
	u.events = append(u.events, evt)
}

func (u *UnitOfWork) Events() []message.Event { return u.events }

// TxRepo is the write-path repository bound to one memory unit of work.
type TxRepo[T any] struct {
	uow *UnitOfWork
	c   *collection[T]
}

var _ repository.Repository[struct{}] = (*TxRepo[struct{}])(nil)

func (r *TxRepo[T]) Add(ctx context.Context, item *T) error {
	if err := r.c.insert(item); err != nil {
		return err
	}
	id := r.c.id(item)
	r.uow.undo = append(r.uow.undo, func() { r.c.drop(id) })
	return nil
}

func (r *TxRepo[T]) AddAll(ctx context.Context, items []*T) error {
	for _, item := range items {
		if err := r.Add(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *TxRepo[T]) Update(ctx context.Context, item *T) error {
	prev, err := r.c.update(item)
	if err != nil {
		return err
	}
	r.uow.undo = append(r.uow.undo, func() { r.c.restore(prev) })
	return nil
}

func (r *TxRepo[T]) Get(ctx context.Context, id string) (*T, error) {
	return r.c.get(id), nil
}

func (r *TxRepo[T]) GetBy(ctx context.Context, filters repository.Filters) (*T, error) {
	out, err := r.c.query(filters)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	// query is id-ordered, so the lowest id wins.
	return out[0], nil
}

func (r *TxRepo[T]) GetAll(ctx context.Context, filters repository.Filters) ([]*T, error) {
	return r.c.query(filters)
}

func (r *TxRepo[T]) Remove(ctx context.Context, id string) error {
	prev := r.c.remove(id)
	if prev == nil {
		return nil
	}
	r.uow.undo = append(r.uow.undo, func() { r.c.restore(prev) })
	return nil
}

func (r *TxRepo[T]) Refresh(ctx context.Context, item *T) error {
	stored := r.c.get(r.c.id(item))
	if stored == nil {
		return apperrors.Newf(apperrors.KindItemNotFound, "cannot refresh %q: row gone", r.c.id(item))
	}
	*item = *stored
	return nil
}
