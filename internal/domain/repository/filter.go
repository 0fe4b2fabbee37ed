package repository

import (
	"sort"
	"strings"

	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

// Filters is the keyword filter set. Each key has the shape field__operator,
// e.g. "email__eq" or "create_date__btw".
type Filters map[string]any

// Filter operators.
const (
	OpEq    = "eq"
	OpNotEq = "not_eq"
	OpGt    = "gt"
	OpGte   = "gte"
	OpLt    = "lt"
	OpLte   = "lte"
	OpIn    = "in"
	OpNotIn = "not_in"
	OpBtw   = "btw"
	OpLike  = "like"
	OpIs    = "is"
)

// Condition is one parsed predicate. Whether Field names a real column is
// the backend's concern: unknown fields are silently skipped there.
type Condition struct {
	Field string
	Op    string
	Value any
}

// ParseFilters validates and splits the filter keys. A key without the
// "__" separator, or with an unknown operator, is a validation error.
// Conditions come back sorted by key so compiled queries are deterministic.
func ParseFilters(filters Filters) ([]Condition, error) {
	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	conds := make([]Condition, 0, len(keys))
	for _, key := range keys {
		field, op, ok := strings.Cut(key, "__")
		if !ok || field == "" || op == "" {
			return nil, apperrors.Newf(apperrors.KindValidation, "invalid filter key %q: want field__operator", key)
		}
		switch op {
		case OpEq, OpNotEq, OpGt, OpGte, OpLt, OpLte, OpIn, OpNotIn, OpBtw, OpLike, OpIs:
		default:
			return nil, apperrors.Newf(apperrors.KindValidation, "invalid filter key %q: unknown operator %q", key, op)
		}
		conds = append(conds, Condition{Field: field, Op: op, Value: filters[key]})
	}
	return conds, nil
}
