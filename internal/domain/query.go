package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/shhac/prqueries/internal/errors"
)

// SavedQuery is a named pull-request search expression kept for reuse
type SavedQuery struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Query string `json:"query"`
}

// RepositoryRecord is the persisted per-repository state
type RepositoryRecord struct {
	QueryHistory []string     `json:"queryHistory"` // Most recently used first
	SavedQueries []SavedQuery `json:"savedQueries"` // Display order
}

// NewRepositoryRecord returns an empty record with non-nil slices so that it
// encodes as empty JSON arrays rather than null.
func NewRepositoryRecord() RepositoryRecord {
	return RepositoryRecord{
		QueryHistory: []string{},
		SavedQueries: []SavedQuery{},
	}
}

// Direction is the way a saved query moves in its list
type Direction string

const (
	DirectionUp   Direction = "up"   // Toward index 0
	DirectionDown Direction = "down" // Toward the end
)

// ParseDirection converts user input into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionUp:
		return DirectionUp, nil
	case DirectionDown:
		return DirectionDown, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", apperrors.ErrInvalidDirection, s, DirectionUp, DirectionDown)
	}
}
