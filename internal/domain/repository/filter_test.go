package repository_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

func TestParseFiltersSplitsFieldAndOperator(t *testing.T) {
	conds, err := repository.ParseFilters(repository.Filters{
		"email__eq":        "a@example.com",
		"create_date__btw": []any{1, 2},
	})
	require.NoError(t, err)
	require.Len(t, conds, 2)

	// Sorted by key, so create_date comes first.
	require.Equal(t, "create_date", conds[0].Field)
	require.Equal(t, repository.OpBtw, conds[0].Op)
	require.Equal(t, "email", conds[1].Field)
	require.Equal(t, repository.OpEq, conds[1].Op)
	require.Equal(t, "a@example.com", conds[1].Value)
}

func TestParseFiltersKeyWithoutSeparator(t *testing.T) {
	_, err := repository.ParseFilters(repository.Filters{"email": "a@example.com"})
	require.Error(t, err)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestParseFiltersUnknownOperator(t *testing.T) {
	_, err := repository.ParseFilters(repository.Filters{"email__matches": "a"})
	require.Error(t, err)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestParseFiltersEmptyFieldOrOp(t *testing.T) {
	for _, key := range []string{"__eq", "email__"} {
		_, err := repository.ParseFilters(repository.Filters{key: "x"})
		require.Error(t, err, key)
	}
}

func TestParseFiltersDeterministicOrder(t *testing.T) {
	f := repository.Filters{
		"phone__eq": "+62",
		"email__eq": "a@example.com",
		"id__in":    []string{"a", "b"},
	}
	first, err := repository.ParseFilters(f)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := repository.ParseFilters(f)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestParseFiltersEmpty(t *testing.T) {
	conds, err := repository.ParseFilters(nil)
	require.NoError(t, err)
	require.Empty(t, conds)
}
