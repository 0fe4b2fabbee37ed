package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/entity"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

// UnitOfWork owns one pgx transaction plus the outbound event queue. Begin
// opens the transaction and binds the repositories; Close always releases
// it, rolling back whatever was not committed. After a commit the session
// falls back to the pool so post-commit refreshes still see the row.
type UnitOfWork struct {
	pool   *pgxpool.Pool
	sess   *session
	users  *Repo[entity.User]
	failed *Repo[entity.FailedMessageLog]
	events []message.Event
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// NewUnitOfWorkFactory adapts the pool to the factory the bus and the
// handler registrations consume.
func NewUnitOfWorkFactory(pool *pgxpool.Pool) repository.UnitOfWorkFactory {
	return func() repository.UnitOfWork { return NewUnitOfWork(pool) }
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.sess != nil {
		return errors.New("postgres: unit of work already open")
	}
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}
	u.sess = &session{pool: u.pool, tx: tx}
	u.users = &Repo[entity.User]{s: u.sess, m: userMapping}
	u.failed = &Repo[entity.FailedMessageLog]{s: u.sess, m: failedMessageLogMapping}
	u.events = nil
	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.sess == nil {
		return errors.New("postgres: commit outside an open unit of work")
	}
	if err := u.sess.flush(ctx); err != nil {
		return translateConflict(err)
	}
	if u.sess.tx == nil {
		return nil
	}
	if err := u.sess.tx.Commit(ctx); err != nil {
		_ = u.sess.tx.Rollback(ctx)
		u.sess.tx = nil
		return translateConflict(err)
	}
	u.sess.tx = nil
	return nil
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.sess == nil || u.sess.tx == nil {
		return nil
	}
	u.sess.pending = nil
	return u.sess.tx.Rollback(ctx)
}

func (u *UnitOfWork) Close(ctx context.Context) error {
	if u.sess == nil {
		return nil
	}
	var err error
	if u.sess.tx != nil {
		err = u.sess.tx.Rollback(ctx)
	}
	u.sess = nil
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

// translateConflict maps serialization and deadlock failures to the
// concurrency error kind callers may retry on.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return apperrors.Wrap(apperrors.KindConcurrency, "stale row version", err)
		}
	}
	return err
}
