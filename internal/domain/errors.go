package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"

	// Pipeline errors
	CodeUpstreamUnavailable  ErrorCode = "UPSTREAM_UNAVAILABLE"
	CodeGenerationParseError ErrorCode = "GENERATION_PARSE_ERROR"
	CodePersistenceError     ErrorCode = "PERSISTENCE_ERROR"
)

// Sentinels for errors.Is. A *DomainError matches a sentinel with the same code.
var (
	ErrInvalidInput        = &DomainError{Code: CodeInvalidInput, Message: "invalid input"}
	ErrNotFound            = &DomainError{Code: CodeNotFound, Message: "not found"}
	ErrUpstreamUnavailable = &DomainError{Code: CodeUpstreamUnavailable, Message: "upstream unavailable"}
	ErrGenerationParse     = &DomainError{Code: CodeGenerationParseError, Message: "generation parse error"}
	ErrPersistence         = &DomainError{Code: CodePersistenceError, Message: "persistence error"}
	ErrInternal            = &DomainError{Code: CodeInternal, Message: "internal error"}
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewQuizNotFoundError(quizID int64) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("Quiz not found with ID: %d", quizID), nil)
}

func NewUpstreamUnavailableError(message string, err error) *DomainError {
	return NewError(CodeUpstreamUnavailable, message, err)
}

func NewGenerationParseError(message string, err error) *DomainError {
	return NewError(CodeGenerationParseError, message, err)
}

func NewPersistenceError(message string, err error) *DomainError {
	return NewError(CodePersistenceError, message, err)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

// CodeOf returns the code of the first DomainError in err's chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// ValidationError describes one invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is returned by request validation and rendered as a 400.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("has invalid format: %q", value)}
}
