package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/systmms/lcdrotator/internal/request"
	"github.com/systmms/lcdrotator/pkg/rotator"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// CommandError represents a failed request against a running server
type CommandError struct {
	Command    string
	StatusCode int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Request '%s' failed", e.Command)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status: %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// SimplifyError turns errors from the rotation core and its transports into
// user-facing errors with a suggestion. Errors it does not recognize are
// returned unchanged.
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Already a user-friendly error
	switch err.(type) {
	case UserError, ConfigError, CommandError:
		return err
	}

	switch {
	case errors.Is(err, request.ErrParse):
		return UserError{
			Message:    "Malformed rotator request",
			Details:    err.Error(),
			Suggestion: "Use the form 'NAME key|value [KEY=VALUE,KEY=VALUE]'",
			Err:        err,
		}
	case errors.Is(err, rotator.ErrNoPendingKey):
		return UserError{
			Message:    "No key is pending for this rotator",
			Details:    err.Error(),
			Suggestion: "Send a 'key' request before each 'value' request",
			Err:        err,
		}
	case errors.Is(err, rotator.ErrValueNotFound):
		return UserError{
			Message:    "The pending key has no value",
			Details:    err.Error(),
			Suggestion: "Make sure every key in the first request has a KEY=VALUE pair",
			Err:        err,
		}
	case errors.Is(err, rotator.ErrExhausted):
		return UserError{
			Message:    "The rotator has no keys",
			Details:    err.Error(),
			Suggestion: "Pass KEY=VALUE pairs on the first request or configure the rotator in lcdrotator.yaml",
			Err:        err,
		}
	}

	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return UserError{
			Message:    "Unable to reach the lcdrotator server",
			Suggestion: "Start it with 'lcdrotator serve' or check the --server address",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	return err
}
