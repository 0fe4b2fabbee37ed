package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/entity"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
)

// View is the autocommit read path. It runs straight on the pool, one
// connection per query, so reads never sit inside a write transaction or
// block on its locks. Nothing here can mutate state: the readers only
// expose selects.
type View struct {
	users  *Reader[entity.User]
	failed *Reader[entity.FailedMessageLog]
}

var _ repository.View = (*View)(nil)

func NewView(pool *pgxpool.Pool) *View {
	return &View{
		users:  &Reader[entity.User]{db: pool, m: userMapping},
		failed: &Reader[entity.FailedMessageLog]{db: pool, m: failedMessageLogMapping},
	}
}

// NewViewFactory adapts the pool to the factory the query services consume.
func NewViewFactory(pool *pgxpool.Pool) repository.ViewFactory {
	return func() repository.View { return NewView(pool) }
}

func (v *View) Users() repository.Pager[entity.User] { return v.users }

func (v *View) FailedMessages() repository.Pager[entity.FailedMessageLog] { return v.failed }
