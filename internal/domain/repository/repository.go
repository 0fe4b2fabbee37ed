// Package repository declares the persistence contracts the core depends on:
// typed CRUD plus composable filtering over one entity collection, the unit
// of work that owns a transactional session, and the read-only view used on
// the query path.
package repository

import (
	"context"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/entity"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
)

// Finder is the read side shared by repositories and views.
type Finder[T any] interface {
	// Get looks an entity up by primary identity. Absence is not an error:
	// it returns (nil, nil).
	Get(ctx context.Context, id string) (*T, error)
	// GetBy returns the first entity matching all filters, or (nil, nil).
	// When several rows match, the one with the lowest id wins.
	GetBy(ctx context.Context, filters Filters) (*T, error)
	// GetAll returns every entity matching all filters (AND-combined). An
	// empty filter set returns the whole collection.
	GetAll(ctx context.Context, filters Filters) ([]*T, error)
}

// Repository is the write-side facade bound to the session of the unit of
// work that created it. It must not outlive that session.
type Repository[T any] interface {
	Finder[T]
	// Add stages an entity for insertion. Staged writes are flushed at
	// commit (or before the next read on the same session); there is no
	// immediate-flush guarantee.
	Add(ctx context.Context, item *T) error
	// AddAll stages several entities for insertion, preserving order.
	AddAll(ctx context.Context, items []*T) error
	// Update stages the entity's current field values for persistence.
	Update(ctx context.Context, item *T) error
	// Remove deletes by identity. Removing an absent id is a silent no-op.
	Remove(ctx context.Context, id string) error
	// Refresh reloads the entity's persisted state, picking up
	// server-assigned fields such as create and update dates.
	Refresh(ctx context.Context, item *T) error
}

// Pager extends the read side with pagination for the view.
type Pager[T any] interface {
	Finder[T]
	Paginate(ctx context.Context, filters Filters, ordering []Ordering, offset, size int) ([]*T, error)
	Count(ctx context.Context, filters Filters) (int64, error)
}

// Ordering names a field to sort by on the read path.
type Ordering struct {
	Field string
	Desc  bool
}

// UnitOfWork owns one transactional session and the outbound event queue
// produced while that session is open. A unit of work serves exactly one
// dispatch; handlers never share instances.
type UnitOfWork interface {
	// Begin allocates a fresh session, binds the repositories to it and
	// resets the event queue.
	Begin(ctx context.Context) error
	// Commit flushes staged writes and commits the transaction. A stale-row
	// conflict rolls back and surfaces as a concurrency error.
	Commit(ctx context.Context) error
	// Rollback reverts uncommitted writes.
	Rollback(ctx context.Context) error
	// Close releases the session unconditionally, rolling back anything
	// left uncommitted. Safe to call after Commit.
	Close(ctx context.Context) error

	Users() Repository[entity.User]
	FailedMessages() Repository[entity.FailedMessageLog]

	// RecordEvent appends an event to the outbound queue. The bus drains
	// the queue after the handler returns.
	RecordEvent(evt message.Event)
	// Events returns the queued events in FIFO order.
	Events() []message.Event
}

// UnitOfWorkFactory builds a fresh unit of work per dispatch.
type UnitOfWorkFactory func() UnitOfWork

// View is the autocommit read path, deliberately separate from the unit of
// work so queries never join write transactions.
type View interface {
	Users() Pager[entity.User]
	FailedMessages() Pager[entity.FailedMessageLog]
}

// ViewFactory builds a view over the read-side session source.
type ViewFactory func() View
