package errors

import (
	"context"
	"errors"
)

// ErrorSeverity indicates how bad an error is for the person at the terminal.
type ErrorSeverity int

const (
	SeverityInfo    ErrorSeverity = iota // User should know, not blocking
	SeverityWarning                      // Input was rejected, nothing changed
	SeverityError                        // Operation failed, can retry
	SeverityFatal                        // Store cannot be used at all
)

// UserError wraps an error with presentation metadata for the CLI.
type UserError struct {
	Err      error
	Severity ErrorSeverity
	Title    string   // Short user-facing title
	Message  string   // Detailed user-facing message
	Recovery []string // Suggested actions (bullet points)
	Details  string   // Technical details, printed in debug mode
}

func (e UserError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Title
}

// Unwrap returns the underlying error.
func (e UserError) Unwrap() error {
	return e.Err
}

// ExitCode maps the severity onto a process exit status.
func (e UserError) ExitCode() int {
	switch e.Severity {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 2
	case SeverityFatal:
		return 3
	default:
		return 1
	}
}

// ClassifyError converts a standard error into a UserError with appropriate
// severity, title, message, and recovery suggestions.
func ClassifyError(err error) *UserError {
	if err == nil {
		return nil
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr
	}

	switch {
	case errors.Is(err, context.Canceled):
		return &UserError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "Cancelled",
			Message:  "The operation was cancelled.",
		}

	case errors.Is(err, ErrCorruptRecord):
		return &UserError{
			Err:      err,
			Severity: SeverityFatal,
			Title:    "Corrupt Record",
			Message:  "The stored data for this repository could not be decoded.",
			Recovery: []string{
				"Inspect the storage backend for manual edits",
				"Point --storage at a fresh directory",
			},
			Details: err.Error(),
		}

	case errors.Is(err, ErrStorageUnavailable):
		return &UserError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Storage Unavailable",
			Message:  "The query store could not be read or written.",
			Recovery: []string{
				"Check that the storage directory exists and is writable",
				"Try again",
			},
			Details: err.Error(),
		}

	case errors.Is(err, ErrUnknownBackend):
		return &UserError{
			Err:      err,
			Severity: SeverityFatal,
			Title:    "Unknown Backend",
			Message:  "The configured storage backend is not supported.",
			Recovery: []string{"Use one of: file, sqlite, preferences, memory"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrDuplicateSavedQuery):
		return &UserError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Duplicate Saved Query",
			Message:  "A saved query with this id already exists.",
			Recovery: []string{"Use update to change the existing query"},
		}

	case errors.Is(err, ErrSavedQueryNotFound):
		return &UserError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Saved Query Not Found",
			Message:  "No saved query with this id exists for the repository.",
			Recovery: []string{"Run 'saved list' to see available ids"},
		}

	case errors.Is(err, ErrInvalidDirection):
		return &UserError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Invalid Direction",
			Message:  err.Error(),
			Recovery: []string{"Use 'up' or 'down'"},
		}
	}

	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return &UserError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Validation Error",
			Message:  validationErr.Message,
			Recovery: []string{"Correct the value and try again"},
			Details:  validationErr.Error(),
		}
	}

	return &UserError{
		Err:      err,
		Severity: SeverityError,
		Title:    "Unexpected Error",
		Message:  "An unexpected error occurred.",
		Recovery: []string{"Try again with --debug for details"},
		Details:  err.Error(),
	}
}
