package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/campus-stack/grievance-service/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// NewForbidden covers authorization failures: the actor lacks the role or
// ownership the operation requires. Never retried automatically.
func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewTransitionError surfaces an illegal lifecycle move verbatim, carrying
// from/to/role so the UI can explain it.
func NewTransitionError(te *domain.TransitionError) error {
	return &DomainError{
		Code:       "TRANSITION_INVALID",
		Message:    te.Error(),
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"from":   te.From,
			"to":     te.To,
			"role":   te.Role,
			"reason": te.Reason,
		},
		Err: te,
	}
}

// NewNoResolverAvailable reports an empty resolver pool during assignment.
func NewNoResolverAvailable(category string) error {
	return &DomainError{
		Code:       "NO_RESOLVER_AVAILABLE",
		Message:    "no resolvers available for assignment",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"category": category},
	}
}

// NewBackendError wraps an opaque persistence failure, propagated unchanged.
func NewBackendError(err error) error {
	return &DomainError{
		Code:       "BACKEND_ERROR",
		Message:    "persistence backend failure",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Transition errors
// keep their identity; unrecognized errors surface as backend failures so
// the UI can distinguish "you can't do that" from "the system is down".
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var transitionErr *domain.TransitionError
	if errors.As(err, &transitionErr) {
		if de, ok := NewTransitionError(transitionErr).(*DomainError); ok {
			return de
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewBackendError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
