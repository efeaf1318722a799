// utils/errors.go
package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers; it is stable across releases and safe to expose.
type Kind string

const (
	KindMalformedProviderData       Kind = "MalformedProviderData"
	KindInvalidPassengerComposition Kind = "InvalidPassengerComposition"
	KindMissingRequiredField        Kind = "MissingRequiredField"
	KindForbidden                   Kind = "Forbidden"
	KindAlreadyCancelled            Kind = "AlreadyCancelled"
	KindStaleStatus                 Kind = "StaleStatus"
	KindProviderUnavailable         Kind = "ProviderUnavailable"
	KindNotFound                    Kind = "NotFound"
	KindIllegalTransition           Kind = "IllegalTransition"
	KindInvalidInput                Kind = "InvalidInput"
	KindUnauthorized                Kind = "Unauthorized"
	KindConflict                    Kind = "Conflict"
	KindInternal                    Kind = "Internal"
)

// AppError carries a Kind, a human readable message and optionally the underlying cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches any AppError of the same Kind, so sentinels below work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Kind == e.Kind
}

var (
	ErrMalformedProviderData       = &AppError{Kind: KindMalformedProviderData, Message: "provider returned malformed flight data"}
	ErrInvalidPassengerComposition = &AppError{Kind: KindInvalidPassengerComposition, Message: "at least one adult is required and infants cannot outnumber adults"}
	ErrMissingRequiredField        = &AppError{Kind: KindMissingRequiredField, Message: "a required field is missing"}
	ErrForbidden                   = &AppError{Kind: KindForbidden, Message: "you are not allowed to perform this action"}
	ErrAlreadyCancelled            = &AppError{Kind: KindAlreadyCancelled, Message: "booking is already cancelled"}
	ErrStaleStatus                 = &AppError{Kind: KindStaleStatus, Message: "booking was modified concurrently, please retry"}
	ErrProviderUnavailable         = &AppError{Kind: KindProviderUnavailable, Message: "flight data provider is unavailable"}
	ErrNotFound                    = &AppError{Kind: KindNotFound, Message: "resource not found"}
	ErrIllegalTransition           = &AppError{Kind: KindIllegalTransition, Message: "booking status change is not allowed"}
	ErrInvalidInput                = &AppError{Kind: KindInvalidInput, Message: "invalid input"}
	ErrUnauthorized                = &AppError{Kind: KindUnauthorized, Message: "authentication required"}
	ErrConflict                    = &AppError{Kind: KindConflict, Message: "resource already exists"}
)

// NewError builds an AppError of the given kind.
func NewError(kind Kind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: cause}
}

// Missing reports a MissingRequiredField error naming the field.
func Missing(field string) *AppError {
	return &AppError{Kind: KindMissingRequiredField, Message: fmt.Sprintf("%s is required", field)}
}

// Invalid reports an InvalidInput error.
func Invalid(format string, args ...any) *AppError {
	return &AppError{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the caller visible message for err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindMissingRequiredField, KindInvalidPassengerComposition, KindMalformedProviderData, KindInvalidInput:
		return http.StatusBadRequest
	case KindAlreadyCancelled, KindStaleStatus, KindIllegalTransition, KindConflict:
		return http.StatusConflict
	case KindProviderUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
