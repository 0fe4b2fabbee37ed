package entity

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Base carries the identity and bookkeeping fields shared by every persisted
// entity. Identity is the ID alone: two values carrying the same ID describe
// the same entity no matter what the remaining fields hold, which is what
// lets entities act as map keys and dedupe-set members.
//
// CreateDate is assigned by the store when the row is first written;
// UpdateDate is set by the store on every mutating write and stays nil until
// then.
type Base struct {
	ID         string
	CreateDate time.Time
	UpdateDate *time.Time
}

// NewBase allocates a fresh identity. The ID is a 21-char nanoid, immutable
// from here on.
func NewBase() Base {
	return Base{ID: NewID()}
}

// NewID returns a new opaque entity identifier.
func NewID() string {
	return gonanoid.Must()
}

// Equal reports identity equality. Entities with empty IDs are never equal.
func (b Base) Equal(other Base) bool {
	return b.ID != "" && b.ID == other.ID
}
