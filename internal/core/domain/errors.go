package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every domain error wraps exactly one of these so the transport
// layer can pick a status code with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

var (
	ErrClientNotFound     = fmt.Errorf("%w: client not found", ErrNotFound)
	ErrAccountNotFound    = fmt.Errorf("%w: service account not found", ErrNotFound)
	ErrProfileNotFound    = fmt.Errorf("%w: profile not found", ErrNotFound)
	ErrAssignmentNotFound = fmt.Errorf("%w: assignment not found", ErrNotFound)
	ErrNoActiveAssignment = fmt.Errorf("%w: client has no active assignment", ErrNotFound)

	ErrClientExists              = fmt.Errorf("%w: client already exists", ErrValidation)
	ErrAccountExists             = fmt.Errorf("%w: service account name or email already exists", ErrValidation)
	ErrDuplicateActiveAssignment = fmt.Errorf("%w: client already has an active assignment", ErrValidation)
	ErrAssignmentInProgress      = fmt.Errorf("%w: another assignment for this client is being processed", ErrValidation)
	ErrInvalidPIN                = fmt.Errorf("%w: pin must be exactly 4 digits", ErrValidation)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrSessionRequired    = fmt.Errorf("%w: login required", ErrUnauthorized)
)

// ValidationError carries a free-form message about a rejected input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError returns a ValidationError with the given message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

var sentinels = []error{
	ErrClientNotFound, ErrAccountNotFound, ErrProfileNotFound, ErrAssignmentNotFound, ErrNoActiveAssignment,
	ErrClientExists, ErrAccountExists, ErrDuplicateActiveAssignment, ErrAssignmentInProgress, ErrInvalidPIN,
	ErrInvalidCredentials, ErrSessionRequired,
}

// Message returns the human readable part of a domain error: the sentinel's
// text without its kind prefix, even when wrapped with extra context.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Msg
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return strings.SplitN(s.Error(), ": ", 2)[1]
		}
	}
	return err.Error()
}
