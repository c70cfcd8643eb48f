package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventticketing/internal/domain"
)

var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrInvalidState, http.StatusBadRequest, ErrCodeInvalidState},
	{domain.ErrInsufficientInventory, http.StatusBadRequest, ErrCodeInsufficientInventory},
	{domain.ErrAlreadyCancelled, http.StatusBadRequest, ErrCodeAlreadyCancelled},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, ErrCodeUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{domain.ErrUserNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrDuplicateEmail, http.StatusConflict, ErrCodeConflict},
}

// ErrorStatus maps a domain error to its HTTP status and error code.
// ok is false for errors that are not part of the domain contract.
func ErrorStatus(err error) (status int, code string, ok bool) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.code, true
		}
	}
	return http.StatusInternalServerError, ErrCodeInternalError, false
}

// WriteDomainError answers with the status and code mapped from err. Unmapped
// errors are logged and answered with a generic 500 that carries no detail.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code, ok := ErrorStatus(err)
	if !ok {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, status, code, "internal server error")
		return
	}
	WriteJSONError(w, status, code, err.Error())
}
