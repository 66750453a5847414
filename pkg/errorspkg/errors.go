// Package errorspkg provides common app errors and their transport mapping.
package errorspkg

import (
	"errors"
	"net/http"

	"github.com/go-petr/safebank/internal/domain"
)

// ErrInternal indicates internal server error.
var ErrInternal = errors.New("internal")

var statuses = []struct {
	err    error
	status int
}{
	{domain.ErrInvalidGender, http.StatusBadRequest},
	{domain.ErrInvalidAge, http.StatusBadRequest},
	{domain.ErrInvalidName, http.StatusBadRequest},
	{domain.ErrInvalidPIN, http.StatusBadRequest},
	{domain.ErrInvalidContact, http.StatusBadRequest},
	{domain.ErrInvalidAmount, http.StatusBadRequest},
	{domain.ErrCancelled, http.StatusBadRequest},
	{domain.ErrAccountNotFound, http.StatusNotFound},
	{domain.ErrPINAlreadyExists, http.StatusConflict},
	{domain.ErrAmbiguousName, http.StatusConflict},
	{domain.ErrInsufficientFunds, http.StatusUnprocessableEntity},
	{domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
}

// HTTPStatus returns the status code a ledger error is reported with.
//
// Unknown errors map to 500 and should be reported as ErrInternal.
func HTTPStatus(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}

	return http.StatusInternalServerError
}
