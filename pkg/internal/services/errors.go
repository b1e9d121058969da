package services

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindSelfAction
	KindDependency
)

func (v ErrorKind) String() string {
	switch v {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not found"
	case KindSelfAction:
		return "self action"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Error is the error type every service operation returns for anticipated
// failures. Message is safe to show to clients, Cause is not.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (v *Error) Error() string {
	if v.Cause != nil {
		return fmt.Sprintf("%s: %v", v.Message, v.Cause)
	}
	return v.Message
}

func (v *Error) Unwrap() error {
	return v.Cause
}

func newError(kind ErrorKind, message string, cause ...error) *Error {
	err := &Error{Kind: kind, Message: message}
	if len(cause) > 0 {
		err.Cause = cause[0]
	}
	return err
}

func ValidationError(message string) *Error { return newError(KindValidation, message) }

func ConflictError(message string) *Error { return newError(KindConflict, message) }

func AuthenticationError(message string) *Error { return newError(KindAuthentication, message) }

func AuthorizationError(message string) *Error { return newError(KindAuthorization, message) }

func NotFoundError(message string) *Error { return newError(KindNotFound, message) }

func SelfActionError(message string) *Error { return newError(KindSelfAction, message) }

func DependencyError(message string, cause error) *Error {
	return newError(KindDependency, message, cause)
}

func IsKind(err error, kind ErrorKind) bool {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind == kind
	}
	return false
}
