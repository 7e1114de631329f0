// Package errors defines the error taxonomy shared by graffiti packages.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors that can be used with errors.Is() for error type checking.
var (
	// ErrInvalidMessage indicates an empty message or one with unsupported characters.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidRange indicates commit bounds that are below 1 or out of order.
	ErrInvalidRange = errors.New("invalid commit range")

	// ErrConfiguration indicates a missing or malformed glyph resource or setting.
	ErrConfiguration = errors.New("configuration error")

	// ErrCommitFailed indicates the commit-creation effect failed.
	ErrCommitFailed = errors.New("commit creation failed")
)

// Wrap wraps an error with a message for better context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message for better context.
func Wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether target is in err's chain.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// MessageError reports a message that cannot be rendered.
// Invalid holds the offending characters, already formatted for display.
type MessageError struct {
	Reason  string
	Invalid []string
}

// Error implements the error interface.
func (e *MessageError) Error() string {
	if len(e.Invalid) > 0 {
		return fmt.Sprintf("unsupported characters in message: %s", strings.Join(e.Invalid, " "))
	}
	return e.Reason
}

// Unwrap returns ErrInvalidMessage.
func (e *MessageError) Unwrap() error {
	return ErrInvalidMessage
}

// NewMessageError creates a MessageError without character details.
func NewMessageError(reason string) *MessageError {
	return &MessageError{Reason: reason}
}

// RangeError reports invalid minimum/maximum commit bounds.
type RangeError struct {
	Min    int
	Max    int
	Reason string
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid commit range [%d, %d]: %s", e.Min, e.Max, e.Reason)
}

// Unwrap returns ErrInvalidRange.
func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}

// ConfigError represents an error in the application configuration.
// It includes the parameter name, its value if available, and the underlying error.
type ConfigError struct {
	Parameter string
	Value     any
	Err       error
}

// Error implements the error interface with details about the invalid configuration.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("configuration error for %s = %v: %v", e.Parameter, e.Value, e.Err)
	}
	return fmt.Sprintf("configuration error for %s: %v", e.Parameter, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConfigError) Unwrap() []error {
	return []error{ErrConfiguration, e.Err}
}

// NewConfigError creates a new ConfigError with the given parameters.
func NewConfigError(parameter string, value any, err error) *ConfigError {
	return &ConfigError{
		Parameter: parameter,
		Value:     value,
		Err:       err,
	}
}

// CommitError represents a failed commit for a single (date, unit) pair.
type CommitError struct {
	Date time.Time
	Unit int
	Err  error
}

// Error implements the error interface.
func (e *CommitError) Error() string {
	msg := fmt.Sprintf("commit %d for %s failed", e.Unit+1, e.Date.Format("2006-01-02"))
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns ErrCommitFailed and the underlying error.
func (e *CommitError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCommitFailed}
	}
	return []error{ErrCommitFailed, e.Err}
}

// GitError represents an error that occurred while running a git command.
type GitError struct {
	Args   []string
	Err    error
	Output string
}

// Error implements the error interface.
func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if e.Output != "" {
		msg = fmt.Sprintf("%s: %s", msg, strings.TrimSpace(e.Output))
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *GitError) Unwrap() error {
	return e.Err
}
