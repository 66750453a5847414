package domain

import "errors"

var (
	// ErrInvalidGender indicates the gender is not one of Genders.
	ErrInvalidGender = errors.New("invalid gender")
	// ErrInvalidAge indicates the age is outside of [0, 100].
	ErrInvalidAge = errors.New("invalid age")
	// ErrInvalidName indicates the name holds something other than letters and spaces.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidPIN indicates the PIN is not exactly 10 digits.
	ErrInvalidPIN = errors.New("invalid pin")
	// ErrInvalidContact indicates the contact number is not exactly 10 digits.
	ErrInvalidContact = errors.New("invalid contact")
	// ErrInvalidAmount indicates a non-positive amount or one below the operation minimum.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrPINAlreadyExists indicates an account with the given PIN already exists.
	ErrPINAlreadyExists = errors.New("account with this pin already exists")
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInsufficientFunds indicates the withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrCancelled indicates a destructive operation ran without confirmation.
	ErrCancelled = errors.New("operation cancelled")
	// ErrAmbiguousName indicates a by-name operation matched more than one account.
	ErrAmbiguousName = errors.New("more than one account has this name")
	// ErrStoreUnavailable indicates the account store could not serve the request.
	ErrStoreUnavailable = errors.New("account store unavailable")
)

// ValidationError reports a rejected input together with a human readable reason.
type ValidationError struct {
	Err    error
	Reason string
}

// NewValidationError returns ValidationError wrapping err.
func NewValidationError(err error, reason string) *ValidationError {
	return &ValidationError{Err: err, Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Err.Error() + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
