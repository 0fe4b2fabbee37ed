package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		kind apperrors.Kind
		want int
	}{
		{apperrors.KindItemNotFound, http.StatusNotFound},
		{apperrors.KindDuplicateRecord, http.StatusBadRequest},
		{apperrors.KindUnauthorized, http.StatusUnauthorized},
		{apperrors.KindForbidden, http.StatusForbidden},
		{apperrors.KindValidation, http.StatusUnprocessableEntity},
		{apperrors.KindConcurrency, http.StatusInternalServerError},
		{apperrors.KindHandlerNotFound, http.StatusInternalServerError},
		{apperrors.KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, statusFor(apperrors.New(tc.kind, "x")), tc.kind.String())
	}
}

func TestStatusForUntaggedError(t *testing.T) {
	require.Equal(t, http.StatusInternalServerError, statusFor(errors.New("driver: bad connection")))
}

func TestMessageForMasksInternal(t *testing.T) {
	require.Equal(t, "internal server error", messageFor(errors.New("driver: bad connection")))
	require.Equal(t, "item not found", messageFor(apperrors.New(apperrors.KindItemNotFound, "item not found")))
}
