package handlers

import (
	"net/http"

	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

// statusFor maps an application error kind to the HTTP status code
// the endpoint replies with.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindItemNotFound:
		return http.StatusNotFound
	case apperrors.KindDuplicateRecord:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the message to expose for err. Internal errors are
// masked so the envelope never leaks driver or SQL details.
func messageFor(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
