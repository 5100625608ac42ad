package app

import (
	"errors"
	"fmt"
)

const (
	CodeValidation       = "VALIDATION"
	CodeNotFound         = "NOT_FOUND"
	CodeRange            = "RANGE"
	CodeAlreadyCompleted = "ALREADY_COMPLETED"
	CodeForbidden        = "FORBIDDEN"
)

// DomainError is the single fault type the mutation layer raises. The
// handler boundary converts it to a user-facing reply; nothing is fatal.
type DomainError struct {
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(code, message string, details any) *DomainError {
	return &DomainError{Code: code, Message: message, Details: details}
}

func validationError(format string, args ...any) *DomainError {
	return domainError(CodeValidation, fmt.Sprintf(format, args...), nil)
}

func notFoundError(format string, args ...any) *DomainError {
	return domainError(CodeNotFound, fmt.Sprintf(format, args...), nil)
}

func rangeError(format string, args ...any) *DomainError {
	return domainError(CodeRange, fmt.Sprintf(format, args...), nil)
}

func alreadyCompletedError(format string, args ...any) *DomainError {
	return domainError(CodeAlreadyCompleted, fmt.Sprintf(format, args...), nil)
}

// ErrorCode extracts the domain code from err, or "" for plain errors.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
