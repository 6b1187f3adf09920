// Package shared contains the error vocabulary used by every GradePulse
// domain package. It has no external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds, matched with errors.Is.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	ErrValidation      = errors.New("validation error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	ErrInvalidState = errors.New("invalid state")
	ErrBusy         = errors.New("operation already in progress")
	ErrAbandoned    = errors.New("result discarded after cancellation")

	ErrTransport          = errors.New("transport error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError carries the domain and operation that produced an error.
type DomainError struct {
	Domain  string // e.g. "subject", "store", "remote"
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is matches either the kind or the wrapped cause.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

// NewDomainError creates a DomainError without a cause.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{Domain: domain, Op: op, Kind: kind, Message: message}
}

// WrapError attaches domain context to err.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{Domain: domain, Op: op, Kind: kind, Message: message, Err: err}
}

// TransportError reports a failed call to the remote persistence
// collaborator. Status is the HTTP status when one was received, else 0.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// NewTransportError wraps err for operation op.
func NewTransportError(op string, status int, err error) *TransportError {
	if err == nil {
		err = ErrServiceUnavailable
	}
	return &TransportError{Op: op, Status: status, Err: err}
}

// Subject domain errors.
var (
	ErrSubjectNotFound = NewDomainError("subject", "Find", ErrNotFound, "subject not found")
	ErrDuplicateID     = NewDomainError("store", "Insert", ErrAlreadyExists, "subject id already present")
	ErrInvalidExamType = NewDomainError("subject", "Validate", ErrInvalidInput, "unknown exam type")
	ErrInvalidRecord   = NewDomainError("store", "Insert", ErrValidation, "subject record violates field constraints")
)

// Sync errors.
var (
	ErrOperationInFlight = NewDomainError("sync", "Begin", ErrBusy, "operation already in flight")
)

// Remote shape errors, logged and recovered rather than returned.
var (
	ErrMalformedRecord = NewDomainError("remote", "Decode", ErrInvalidFormat, "malformed subject record")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// IsValidation reports whether err stems from rejected input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsTransport reports whether err is a remote call failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsBusy reports whether err is an in-flight rejection.
func IsBusy(err error) bool {
	return errors.Is(err, ErrBusy)
}
