// Package memory implements the persistence contracts over process-local
// maps. It exists for tests and local development: same semantics as the
// postgres backend (identity lookups, filter DSL, lowest-id tie-break,
// server-assigned timestamps) without a database.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/entity"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

// Store holds the collections shared by every unit of work and view built
// on it. Safe for concurrent use.
type Store struct {
	users  *collection[entity.User]
	failed *collection[entity.FailedMessageLog]
}

func NewStore() *Store {
	return &Store{
		users: &collection[entity.User]{
			items: map[string]*entity.User{},
			id:    func(u *entity.User) string { return u.ID },
			clone: func(u *entity.User) *entity.User { c := *u; return &c },
			field: userField,
			stampCreate: func(u *entity.User, now time.Time) { u.CreateDate = now },
			stampUpdate: func(u *entity.User, now time.Time) { u.UpdateDate = &now },
		},
		failed: &collection[entity.FailedMessageLog]{
			items: map[string]*entity.FailedMessageLog{},
			id:    func(l *entity.FailedMessageLog) string { return l.ID },
			clone: func(l *entity.FailedMessageLog) *entity.FailedMessageLog { c := *l; return &c },
			field: failedMessageLogField,
			stampCreate: func(l *entity.FailedMessageLog, now time.Time) { l.CreateDate = now },
			stampUpdate: func(l *entity.FailedMessageLog, now time.Time) { l.UpdateDate = &now },
		},
	}
}

func userField(u *entity.User, name string) (any, bool) {
	switch name {
	case "id":
		return u.ID, true
	case "phone":
		return u.Phone, true
	case "email":
		return u.Email, true
	case "password":
		return u.Password, true
	case "create_date":
		return u.CreateDate, true
	case "update_date":
		if u.UpdateDate == nil {
			return nil, true
		}
		return *u.UpdateDate, true
	default:
		return nil, false
	}
}

func failedMessageLogField(l *entity.FailedMessageLog, name string) (any, bool) {
	switch name {
	case "id":
		return l.ID, true
	case "message_type":
		return l.MessageType, true
	case "message_name":
		return l.MessageName, true
	case "error_message":
		return l.ErrorMessage, true
	case "create_date":
		return l.CreateDate, true
	case "update_date":
		if l.UpdateDate == nil {
			return nil, true
		}
		return *l.UpdateDate, true
	default:
		return nil, false
	}
}

// collection is one entity table. Timestamps are stamped here, playing the
// role of the server-assigned columns.
type collection[T any] struct {
	mu          sync.RWMutex
	items       map[string]*T
	id          func(*T) string
	clone       func(*T) *T
	field       func(*T, string) (any, bool)
	stampCreate func(*T, time.Time)
	stampUpdate func(*T, time.Time)
}

func (c *collection[T]) get(id string) *T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		return nil
	}
	return c.clone(item)
}

// insert stamps the create date on the caller's entity before storing a
// copy, mirroring INSERT ... RETURNING create_date.
func (c *collection[T]) insert(item *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.id(item)
	if _, dup := c.items[id]; dup {
		return apperrors.Newf(apperrors.KindConcurrency, "duplicate primary key %q", id)
	}
	c.stampCreate(item, time.Now())
	c.items[id] = c.clone(item)
	return nil
}

func (c *collection[T]) update(item *T) (prev *T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.id(item)
	stored, ok := c.items[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.KindItemNotFound, "row %q gone", id)
	}
	c.stampUpdate(item, time.Now())
	c.items[id] = c.clone(item)
	return stored, nil
}

func (c *collection[T]) remove(id string) (prev *T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored, ok := c.items[id]
	if !ok {
		return nil
	}
	delete(c.items, id)
	return stored
}

// restore puts a previous version back, used by rollback.
func (c *collection[T]) restore(item *T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[c.id(item)] = item
}

func (c *collection[T]) drop(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
}

// list returns clones ordered by id, matching the deterministic ordering of
// the SQL backend.
func (c *collection[T]) list() []*T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.clone(c.items[id]))
	}
	return out
}

func (c *collection[T]) query(filters repository.Filters) ([]*T, error) {
	conds, err := repository.ParseFilters(filters)
	if err != nil {
		return nil, err
	}
	var out []*T
	for _, item := range c.list() {
		ok, err := matches(item, c.field, conds)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}
