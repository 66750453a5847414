package errorspkg

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-petr/safebank/internal/domain"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "Validation", err: domain.NewValidationError(domain.ErrInvalidName, "bad"), want: http.StatusBadRequest},
		{name: "Cancelled", err: domain.ErrCancelled, want: http.StatusBadRequest},
		{name: "NotFound", err: domain.ErrAccountNotFound, want: http.StatusNotFound},
		{name: "Duplicate", err: domain.ErrPINAlreadyExists, want: http.StatusConflict},
		{name: "Ambiguous", err: domain.ErrAmbiguousName, want: http.StatusConflict},
		{name: "Insufficient", err: domain.ErrInsufficientFunds, want: http.StatusUnprocessableEntity},
		{name: "Wrapped", err: fmt.Errorf("find: %w", domain.ErrStoreUnavailable), want: http.StatusServiceUnavailable},
		{name: "Unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := HTTPStatus(tc.err); got != tc.want {
				t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
