package service

import "fmt"

// ErrorType tags the outcome of an upstream call
type ErrorType int

const (
	ErrorTypeNone ErrorType = iota
	// ErrorTypeRejected means the upstream answered with a failure
	ErrorTypeRejected
	// ErrorTypeUnreachable means the request went out and no response came back
	ErrorTypeUnreachable
	// ErrorTypeInternal covers everything else: bad input, undecodable bodies
	ErrorTypeInternal
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeNone:
		return "ok"
	case ErrorTypeRejected:
		return "rejected"
	case ErrorTypeUnreachable:
		return "unreachable"
	case ErrorTypeInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// ServiceError represents a service-specific error with type information
type ServiceError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

func rejected(message string) *ServiceError {
	return &ServiceError{Type: ErrorTypeRejected, Message: message}
}

func unreachable(message string, cause error) *ServiceError {
	return &ServiceError{Type: ErrorTypeUnreachable, Message: message, Cause: cause}
}

func internalError(message string, cause error) *ServiceError {
	return &ServiceError{Type: ErrorTypeInternal, Message: message, Cause: cause}
}

// Result is the tagged outcome of an upstream call: either a Value or a Failure.
type Result[T any] struct {
	Value   T
	Failure *ServiceError
}

func Succeeded[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func Failed[T any](failure *ServiceError) Result[T] {
	return Result[T]{Failure: failure}
}

// Type returns ErrorTypeNone for a successful result
func (r Result[T]) Type() ErrorType {
	if r.Failure == nil {
		return ErrorTypeNone
	}
	return r.Failure.Type
}

func (r Result[T]) OK() bool {
	return r.Failure == nil
}
