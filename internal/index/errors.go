package index

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes index errors.
type ErrorCode string

const (
	// ErrCodeUnknownResource indicates a lookup by internal id or
	// relation found no matching resource.
	ErrCodeUnknownResource ErrorCode = "UNKNOWN_RESOURCE"

	// ErrCodeParameterOutOfRange indicates an identifier-only lookup
	// was attempted with a tag outside the identifier set.
	ErrCodeParameterOutOfRange ErrorCode = "PARAMETER_OUT_OF_RANGE"

	// ErrCodeIncompatibleVersion indicates the stored schema version
	// is unparseable or unsupported. Fatal at open time: the store
	// must not be used.
	ErrCodeIncompatibleVersion ErrorCode = "INCOMPATIBLE_DATABASE_VERSION"

	// ErrCodeInternal indicates a defensive check failed: corrupted
	// state or a logic defect, never a recoverable condition.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error is the structured error type returned by the index.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownResource reports whether err is an UNKNOWN_RESOURCE error.
// Uses errors.As to handle wrapped errors.
func IsUnknownResource(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Code == ErrCodeUnknownResource
}

// IsParameterOutOfRange reports whether err is a PARAMETER_OUT_OF_RANGE error.
func IsParameterOutOfRange(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Code == ErrCodeParameterOutOfRange
}

// IsIncompatibleVersion reports whether err is an INCOMPATIBLE_DATABASE_VERSION error.
func IsIncompatibleVersion(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Code == ErrCodeIncompatibleVersion
}

// IsInternal reports whether err is an INTERNAL_ERROR error.
func IsInternal(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Code == ErrCodeInternal
}

func errUnknownResource(id int64) *Error {
	return &Error{
		Code:    ErrCodeUnknownResource,
		Message: fmt.Sprintf("no resource with internal id %d", id),
	}
}

func errInternalf(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}
