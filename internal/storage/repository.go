package storage

import (
	"context"

	"github.com/shhac/prqueries/internal/domain"
)

// QueryRepository defines the per-repository query history and saved-query
// operations. Operations on an unknown query or id are no-ops, not errors.
type QueryRepository interface {
	GetOrCreate(ctx context.Context, repo string) (domain.RepositoryRecord, error)

	// History operations
	PushHistory(ctx context.Context, repo, query string) error
	GetHistory(ctx context.Context, repo string) ([]string, error)
	DeleteHistoryEntry(ctx context.Context, repo, query string) error
	ClearHistory(ctx context.Context, repo string) error

	// Saved query operations
	GetSavedQueries(ctx context.Context, repo string) ([]domain.SavedQuery, error)
	GetSavedQuery(ctx context.Context, repo, id string) (*domain.SavedQuery, error)
	AddSavedQuery(ctx context.Context, repo string, q domain.SavedQuery) error
	UpdateSavedQuery(ctx context.Context, repo string, q domain.SavedQuery) error
	MoveSavedQuery(ctx context.Context, repo string, q domain.SavedQuery, dir domain.Direction) error
	DeleteSavedQuery(ctx context.Context, repo, id string) error
}

var _ QueryRepository = (*QueryStore)(nil)
