package memory

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

// matches evaluates all conditions against one entity. Conditions naming an
// unknown field are skipped, same as the SQL backend.
func matches[T any](item *T, field func(*T, string) (any, bool), conds []repository.Condition) (bool, error) {
	for _, c := range conds {
		value, known := field(item, c.Field)
		if !known {
			continue
		}
		ok, err := evalCondition(value, c)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evalCondition(value any, c repository.Condition) (bool, error) {
	switch c.Op {
	case repository.OpEq:
		return equal(value, c.Value), nil
	case repository.OpNotEq:
		return !equal(value, c.Value), nil
	case repository.OpGt, repository.OpGte, repository.OpLt, repository.OpLte:
		cmp, ok := compare(value, c.Value)
		if !ok {
			return false, nil
		}
		switch c.Op {
		case repository.OpGt:
			return cmp > 0, nil
		case repository.OpGte:
			return cmp >= 0, nil
		case repository.OpLt:
			return cmp < 0, nil
		default:
			return cmp <= 0, nil
		}
	case repository.OpIn:
		return contains(c.Value, value), nil
	case repository.OpNotIn:
		return !contains(c.Value, value), nil
	case repository.OpBtw:
		v := reflect.ValueOf(c.Value)
		if (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || v.Len() != 2 {
			return false, apperrors.Newf(apperrors.KindValidation, "filter %s__btw: want exactly two bounds", c.Field)
		}
		lo, okLo := compare(value, v.Index(0).Interface())
		hi, okHi := compare(value, v.Index(1).Interface())
		return okLo && okHi && lo >= 0 && hi <= 0, nil
	case repository.OpLike:
		return strings.Contains(fmt.Sprint(value), fmt.Sprint(c.Value)), nil
	case repository.OpIs:
		if c.Value == nil {
			return isNil(value), nil
		}
		return equal(value, c.Value), nil
	default:
		return false, apperrors.Newf(apperrors.KindValidation, "unknown operator %q", c.Op)
	}
}

func equal(a, b any) bool {
	if cmp, ok := compare(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two values when both are strings, numbers or times.
func compare(a, b any) (int, bool) {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt), true
		}
		return 0, false
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), true
		}
		return 0, false
	}
	af, okA := toFloat(a)
	bf, okB := toFloat(b)
	if okA && okB {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func contains(set, value any) bool {
	v := reflect.ValueOf(set)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if equal(value, v.Index(i).Interface()) {
			return true
		}
	}
	return false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	default:
		return false
	}
}
