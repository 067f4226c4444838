package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidType   = errors.New("invalid type")
	ErrValidation    = errors.New("validation error")
	ErrOutOfRange    = errors.New("index out of range")
	ErrNotFound      = errors.New("not found")
	ErrExternalTool  = errors.New("external tool error")
	ErrConfiguration = errors.New("configuration error")
)

// Exit statuses returned by the CLI for each error class.
const (
	ExitFailure      = 1
	ExitInvalid      = 2
	ExitNotFound     = 3
	ExitExternalTool = 4
)

// Wrap builds an error message that includes scope context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, scope, operation, message string, err error) error {
	detail := buildDetail(scope, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Invalidf is shorthand for a validation error with a formatted message.
func Invalidf(scope, format string, args ...any) error {
	return Wrap(ErrValidation, scope, "", fmt.Sprintf(format, args...), nil)
}

// TypeErrorf is shorthand for a type error with a formatted message.
func TypeErrorf(scope, format string, args ...any) error {
	return Wrap(ErrInvalidType, scope, "", fmt.Sprintf(format, args...), nil)
}

// ExitCode maps an error to the process exit status the CLI should use.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidType), errors.Is(err, ErrValidation), errors.Is(err, ErrOutOfRange), errors.Is(err, ErrConfiguration):
		return ExitInvalid
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrExternalTool):
		return ExitExternalTool
	default:
		return ExitFailure
	}
}

func buildDetail(scope, operation, message string) string {
	parts := make([]string, 0, 3)
	if scope = strings.TrimSpace(scope); scope != "" {
		parts = append(parts, scope)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}
