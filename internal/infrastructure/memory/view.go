package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/entity"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
)

// View is the read path over the store. Same filter semantics as the write
// side, plus pagination.
type View struct {
	users  *PagerRepo[entity.User]
	failed *PagerRepo[entity.FailedMessageLog]
}

var _ repository.View = (*View)(nil)

func NewView(store *Store) *View {
	return &View{
		users:  &PagerRepo[entity.User]{c: store.users},
		failed: &PagerRepo[entity.FailedMessageLog]{c: store.failed},
	}
}

func NewViewFactory(store *Store) repository.ViewFactory {
	return func() repository.View { return NewView(store) }
}

func (v *View) Users() repository.Pager[entity.User] { return v.users }

func (v *View) FailedMessages() repository.Pager[entity.FailedMessageLog] { return v.failed }

// PagerRepo is the read-only repository over one collection.
type PagerRepo[T any] struct {
	c *collection[T]
}

var _ repository.Pager[struct{}] = (*PagerRepo[struct{}])(nil)

func (r *PagerRepo[T]) Get(ctx context.Context, id string) (*T, error) {
	return r.c.get(id), nil
}

func (r *PagerRepo[T]) GetBy(ctx context.Context, filters repository.Filters) (*T, error) {
	out, err := r.c.query(filters)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *PagerRepo[T]) GetAll(ctx context.Context, filters repository.Filters) ([]*T, error) {
	return r.c.query(filters)
}

func (r *PagerRepo[T]) Paginate(ctx context.Context, filters repository.Filters, ordering []repository.Ordering, offset, size int) ([]*T, error) {
	out, err := r.c.query(filters)
	if err != nil {
		return nil, err
	}
	sortItems(out, r.c, ordering)
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if size < len(out) {
		out = out[:size]
	}
	return out, nil
}

func (r *PagerRepo[T]) Count(ctx context.Context, filters repository.Filters) (int64, error) {
	out, err := r.c.query(filters)
	if err != nil {
		return 0, err
	}
	return int64(len(out)), nil
}

// sortItems orders by the requested fields, final tie-break on id, matching
// the SQL backend's deterministic paging.
func sortItems[T any](items []*T, c *collection[T], ordering []repository.Ordering) {
	sort.SliceStable(items, func(i, j int) bool {
		for _, o := range ordering {
			a, okA := c.field(items[i], o.Field)
			b, okB := c.field(items[j], o.Field)
			if !okA || !okB {
				continue
			}
			cmp, ok := compare(a, b)
			if !ok || cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return c.id(items[i]) < c.id(items[j])
	})
}
