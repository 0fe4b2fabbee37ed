package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

var testFields = map[string]string{
	"id":          "id",
	"email":       "email",
	"phone":       "phone",
	"create_date": "create_date",
	"update_date": "update_date",
}

func compileFrom(t *testing.T, filters repository.Filters) (string, []any) {
	t.Helper()
	conds, err := repository.ParseFilters(filters)
	require.NoError(t, err)
	where, args, err := compileFilters(conds, testFields, 1)
	require.NoError(t, err)
	return where, args
}

func TestCompileFiltersEq(t *testing.T) {
	where, args := compileFrom(t, repository.Filters{"email__eq": "a@example.com"})
	require.Equal(t, " WHERE email = $1", where)
	require.Equal(t, []any{"a@example.com"}, args)
}

func TestCompileFiltersComparisonOps(t *testing.T) {
	cases := map[string]string{
		"create_date__gt":  "create_date > $1",
		"create_date__gte": "create_date >= $1",
		"create_date__lt":  "create_date < $1",
		"create_date__lte": "create_date <= $1",
		"email__not_eq":    "email <> $1",
	}
	for key, want := range cases {
		where, args := compileFrom(t, repository.Filters{key: "x"})
		require.Equal(t, " WHERE "+want, where, key)
		require.Len(t, args, 1, key)
	}
}

func TestCompileFiltersIn(t *testing.T) {
	where, args := compileFrom(t, repository.Filters{"id__in": []string{"a", "b"}})
	require.Equal(t, " WHERE id = ANY($1)", where)
	require.Equal(t, []any{[]string{"a", "b"}}, args)

	where, _ = compileFrom(t, repository.Filters{"id__not_in": []string{"a"}})
	require.Equal(t, " WHERE NOT (id = ANY($1))", where)
}

func TestCompileFiltersBetween(t *testing.T) {
	where, args := compileFrom(t, repository.Filters{"create_date__btw": []int{1, 5}})
	require.Equal(t, " WHERE create_date BETWEEN $1 AND $2", where)
	require.Equal(t, []any{1, 5}, args)
}

func TestCompileFiltersBetweenWantsTwoBounds(t *testing.T) {
	conds, err := repository.ParseFilters(repository.Filters{"create_date__btw": []int{1}})
	require.NoError(t, err)
	_, _, err = compileFilters(conds, testFields, 1)
	require.Error(t, err)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCompileFiltersLikeWrapsValue(t *testing.T) {
	where, args := compileFrom(t, repository.Filters{"email__like": "example"})
	require.Equal(t, " WHERE email LIKE $1", where)
	require.Equal(t, []any{"%example%"}, args)
}

func TestCompileFiltersIsNull(t *testing.T) {
	where, args := compileFrom(t, repository.Filters{"update_date__is": nil})
	require.Equal(t, " WHERE update_date IS NULL", where)
	require.Empty(t, args)
}

func TestCompileFiltersIsValue(t *testing.T) {
	where, args := compileFrom(t, repository.Filters{"email__is": "a@example.com"})
	require.Equal(t, " WHERE email IS NOT DISTINCT FROM $1", where)
	require.Equal(t, []any{"a@example.com"}, args)
}

func TestCompileFiltersUnknownFieldSkipped(t *testing.T) {
	where, args := compileFrom(t, repository.Filters{"nickname__eq": "x"})
	require.Empty(t, where)
	require.Empty(t, args)
}

func TestCompileFiltersMultipleJoinedWithAnd(t *testing.T) {
	where, args := compileFrom(t, repository.Filters{
		"email__eq": "a@example.com",
		"phone__eq": "+62",
	})
	require.Equal(t, " WHERE email = $1 AND phone = $2", where)
	require.Equal(t, []any{"a@example.com", "+62"}, args)
}

func TestCompileFiltersStartArgOffset(t *testing.T) {
	conds, err := repository.ParseFilters(repository.Filters{"email__eq": "a"})
	require.NoError(t, err)
	where, _, err := compileFilters(conds, testFields, 3)
	require.NoError(t, err)
	require.Equal(t, " WHERE email = $3", where)
}
