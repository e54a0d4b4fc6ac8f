// Package errors provides error types and handling utilities for gitquill.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrorCode represents the category of an error.
type ErrorCode int

const (
	// User errors (Exit Code 1)
	ErrMissingCredentials ErrorCode = iota + 100
	ErrInvalidConfig
	ErrEmptyCommitMessage
	ErrInvalidArguments

	// System errors (Exit Code 2)
	ErrGitCommandFailed ErrorCode = iota + 200
	ErrNotARepository
	ErrFileSystemError

	// External errors (Exit Code 3)
	ErrCompletionFailed ErrorCode = iota + 300
	ErrModelUnavailable
	ErrNetworkError
	ErrTimeout
	ErrAuthenticationFailed
)

// ExitCode returns the appropriate exit code for an error code.
func (c ErrorCode) ExitCode() int {
	switch {
	case c >= 100 && c < 200:
		return 1 // User errors
	case c >= 200 && c < 300:
		return 2 // System errors
	case c >= 300:
		return 3 // External errors
	default:
		return 1
	}
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrMissingCredentials:
		return "MissingCredentials"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrEmptyCommitMessage:
		return "EmptyCommitMessage"
	case ErrInvalidArguments:
		return "InvalidArguments"
	case ErrGitCommandFailed:
		return "GitCommandFailed"
	case ErrNotARepository:
		return "NotARepository"
	case ErrFileSystemError:
		return "FileSystemError"
	case ErrCompletionFailed:
		return "CompletionFailed"
	case ErrModelUnavailable:
		return "ModelUnavailable"
	case ErrNetworkError:
		return "NetworkError"
	case ErrTimeout:
		return "Timeout"
	case ErrAuthenticationFailed:
		return "AuthenticationFailed"
	default:
		return "Unknown"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Suggestion string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with context.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1 // Default to user error
}

// Common error constructors with suggestions

// NewMissingCredentialsError creates an error for missing API credentials.
func NewMissingCredentialsError() *AppError {
	return &AppError{
		Code:       ErrMissingCredentials,
		Message:    "missing API credentials (api_key and base_url are both required)",
		Suggestion: "Create ~/.config/gitquill/secrets.json with api_key and base_url, or set GITQUILL_API_KEY and GITQUILL_BASE_URL",
	}
}

// NewNotARepositoryError creates an error for running outside a git repository.
func NewNotARepositoryError(err error) *AppError {
	return &AppError{
		Code:       ErrNotARepository,
		Message:    "not a git repository",
		Cause:      err,
		Suggestion: "Run gitquill from inside a git working tree",
	}
}

// NewGitError creates an error for git command failures.
func NewGitError(err error, output string) *AppError {
	appErr := &AppError{
		Code:    ErrGitCommandFailed,
		Message: "git command failed",
		Cause:   err,
	}
	if output != "" {
		appErr.Message = fmt.Sprintf("git command failed: %s", strings.TrimSpace(output))
	}
	return appErr
}

// NewModelUnavailableError creates an error for a model missing from the listing.
func NewModelUnavailableError(model string) *AppError {
	return &AppError{
		Code:       ErrModelUnavailable,
		Message:    fmt.Sprintf("model %q is not available", model),
		Suggestion: "Run 'gitquill --list-models' to see the models your endpoint offers",
	}
}

// NewCompletionError creates an error for chat completion failures.
func NewCompletionError(err error) *AppError {
	return &AppError{
		Code:       ErrCompletionFailed,
		Message:    "failed to generate commit message",
		Cause:      err,
		Suggestion: "Please check your API key and network connectivity",
	}
}

// NewEmptyCommitMessageError creates an error for an empty message after editing.
func NewEmptyCommitMessageError() *AppError {
	return &AppError{
		Code:       ErrEmptyCommitMessage,
		Message:    "commit message is empty after editing",
		Suggestion: "Save a non-empty message in the editor to commit",
	}
}

// NewNetworkError creates an error for network failures.
func NewNetworkError(err error) *AppError {
	return &AppError{
		Code:       ErrNetworkError,
		Message:    "network error occurred",
		Cause:      err,
		Suggestion: "Please check your network connection and try again",
	}
}

// NewTimeoutError creates an error for timeouts.
func NewTimeoutError(err error) *AppError {
	return &AppError{
		Code:       ErrTimeout,
		Message:    "request timed out",
		Cause:      err,
		Suggestion: "Please check your network connection or try again later",
	}
}

// NewAuthenticationError creates an error for authentication failures.
func NewAuthenticationError(endpoint string) *AppError {
	return &AppError{
		Code:       ErrAuthenticationFailed,
		Message:    fmt.Sprintf("authentication failed with %s", endpoint),
		Suggestion: "Please check your API key is valid and has not expired",
	}
}

// FormatError formats an error for user display.
// API keys and other sensitive data are automatically masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(appErr.Message))

		if appErr.Cause != nil {
			sb.WriteString("\n  Cause: ")
			sb.WriteString(SanitizeErrorMessage(appErr.Cause.Error()))
		}

		if appErr.Suggestion != "" {
			sb.WriteString("\n  Suggestion: ")
			sb.WriteString(appErr.Suggestion)
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(err.Error()))
	}

	return sb.String()
}

// SanitizeErrorMessage masks any API keys or sensitive data in error messages.
func SanitizeErrorMessage(msg string) string {
	return apiKeyPattern.ReplaceAllStringFunc(msg, func(match string) string {
		if len(match) <= 4 {
			return "****"
		}
		return strings.Repeat("*", len(match)-4) + match[len(match)-4:]
	})
}

// apiKeyPattern matches common API key patterns.
var apiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`)
