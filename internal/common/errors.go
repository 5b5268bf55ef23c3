package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrMissingTable = errors.New("required table missing")
	ErrMissingInput = errors.New("required input missing")
)

const (
	CodeStructural = "STRUCTURAL"
	CodeConfig     = "CONFIG_ERROR"
)

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// MissingTable is returned when a stage's upstream table is absent.
func MissingTable(stage string, table string) error {
	return NewAppError(CodeStructural, fmt.Sprintf("%s: table %q not found", stage, table), ErrMissingTable)
}

// MissingInput is returned when a stage's input file or stream is absent.
func MissingInput(stage string, path string) error {
	return NewAppError(CodeStructural, fmt.Sprintf("%s: input %q not found", stage, path), ErrMissingInput)
}

// IsStructural reports whether err should abort a stage without touching the store.
func IsStructural(err error) bool {
	return errors.Is(err, ErrMissingTable) || errors.Is(err, ErrMissingInput)
}
