package errors

import "errors"

// Sentinel errors for common failure modes.
var (
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrCorruptRecord       = errors.New("corrupt repository record")
	ErrDuplicateSavedQuery = errors.New("saved query id already exists")
	ErrSavedQueryNotFound  = errors.New("saved query not found")
	ErrInvalidDirection    = errors.New("invalid move direction")
	ErrUnknownBackend      = errors.New("unknown storage backend")
)

// ValidationError represents a field validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
