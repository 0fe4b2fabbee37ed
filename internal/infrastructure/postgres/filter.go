package postgres

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

// compileFilters turns parsed conditions into a SQL predicate and its
// arguments. fields whitelists the DSL field names and maps them to columns;
// a condition naming an unknown field is silently skipped. args numbering
// starts at startArg.
func compileFilters(conds []repository.Condition, fields map[string]string, startArg int) (string, []any, error) {
	var clauses []string
	var args []any
	n := startArg

	for _, c := range conds {
		col, known := fields[c.Field]
		if !known {
			continue
		}
		switch c.Op {
		case repository.OpEq:
			clauses = append(clauses, fmt.Sprintf("%s = $%d", col, n))
			args = append(args, c.Value)
			n++
		case repository.OpNotEq:
			clauses = append(clauses, fmt.Sprintf("%s <> $%d", col, n))
			args = append(args, c.Value)
			n++
		case repository.OpGt:
			clauses = append(clauses, fmt.Sprintf("%s > $%d", col, n))
			args = append(args, c.Value)
			n++
		case repository.OpGte:
			clauses = append(clauses, fmt.Sprintf("%s >= $%d", col, n))
			args = append(args, c.Value)
			n++
		case repository.OpLt:
			clauses = append(clauses, fmt.Sprintf("%s < $%d", col, n))
			args = append(args, c.Value)
			n++
		case repository.OpLte:
			clauses = append(clauses, fmt.Sprintf("%s <= $%d", col, n))
			args = append(args, c.Value)
			n++
		case repository.OpIn:
			clauses = append(clauses, fmt.Sprintf("%s = ANY($%d)", col, n))
			args = append(args, c.Value)
			n++
		case repository.OpNotIn:
			clauses = append(clauses, fmt.Sprintf("NOT (%s = ANY($%d))", col, n))
			args = append(args, c.Value)
			n++
		case repository.OpBtw:
			lo, hi, err := betweenBounds(c)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, fmt.Sprintf("%s BETWEEN $%d AND $%d", col, n, n+1))
			args = append(args, lo, hi)
			n += 2
		case repository.OpLike:
			clauses = append(clauses, fmt.Sprintf("%s LIKE $%d", col, n))
			args = append(args, fmt.Sprintf("%%%v%%", c.Value))
			n++
		case repository.OpIs:
			if c.Value == nil {
				clauses = append(clauses, fmt.Sprintf("%s IS NULL", col))
			} else {
				clauses = append(clauses, fmt.Sprintf("%s IS NOT DISTINCT FROM $%d", col, n))
				args = append(args, c.Value)
				n++
			}
		}
	}

	if len(clauses) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// betweenBounds unpacks the 2-element range of a btw condition.
func betweenBounds(c repository.Condition) (any, any, error) {
	v := reflect.ValueOf(c.Value)
	if (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || v.Len() != 2 {
		return nil, nil, apperrors.Newf(apperrors.KindValidation, "filter %s__btw: want exactly two bounds", c.Field)
	}
	return v.Index(0).Interface(), v.Index(1).Interface(), nil
}
