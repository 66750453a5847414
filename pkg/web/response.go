// Package web defines common components for a web application.
package web

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/go-petr/safebank/internal/domain"
)

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Error wraps a given err into json frinedly struct.
//
// A domain.ValidationError contributes its reason.
func Error(err error) JSONError {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return JSONError{Error: ve.Err.Error(), Reason: ve.Reason}
	}

	return JSONError{Error: err.Error()}
}

// Response holds the common response type for all APIs.
type Response struct {
	Data  any       `json:"data,omitempty"`
	Error JSONError `json:"error,omitempty"`
}

// GetErrorMsg returns the message suffix for a failed binding tag.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " field is required"
	case "personname":
		return " should not contain special characters or numbers"
	case "gender":
		return " should be one of Male, Female, Other"
	case "pin":
		return " should be exactly 10 digits"
	case "contact":
		return " should be exactly 10 digits"
	case "gte":
		return " should be greater than or equal to " + fe.Param()
	case "lte":
		return " should be less than or equal to " + fe.Param()
	case "min":
		return " should be at least " + fe.Param()
	case "max":
		return " should be at most " + fe.Param()
	}

	return " is invalid"
}

// ValidationMessage turns a binding error into a message naming the first failed field.
func ValidationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + GetErrorMsg(field)
	}

	return "invalid request body"
}
