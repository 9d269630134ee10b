// Package storage keeps per-repository pull-request query history and saved
// queries on top of a kv.Provider.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/shhac/prqueries/internal/domain"
	apperrors "github.com/shhac/prqueries/internal/errors"
	"github.com/shhac/prqueries/internal/kv"
)

const (
	// MaxHistorySize bounds the per-repository query history.
	MaxHistorySize = 10

	recordKeyPrefix = "r:"
)

// QueryStore implements QueryRepository. Each repository's record is stored
// as one JSON value under "r:"+repo and every mutation rewrites it with a
// single Set. Mutations on the same repository are serialised; reads and
// mutations on different repositories run freely.
type QueryStore struct {
	kv     kv.Provider
	logger *slog.Logger
	locks  *keyLocks
}

// NewQueryStore creates a store writing through provider
func NewQueryStore(provider kv.Provider, logger *slog.Logger) *QueryStore {
	return &QueryStore{
		kv:     provider,
		logger: logger,
		locks:  newKeyLocks(),
	}
}

// RecordKey returns the provider key a repository's record lives under
func RecordKey(repo string) string {
	return recordKeyPrefix + repo
}

// GetOrCreate returns the repository's record, persisting an empty one on
// first access.
func (s *QueryStore) GetOrCreate(ctx context.Context, repo string) (domain.RepositoryRecord, error) {
	rec, ok, err := s.load(ctx, repo)
	if err != nil {
		return domain.RepositoryRecord{}, err
	}
	if ok {
		return rec, nil
	}

	unlock := s.locks.lock(repo)
	defer unlock()
	return s.getOrCreateLocked(ctx, repo)
}

// PushHistory moves query to the front of the history, dropping any earlier
// occurrence and trimming the tail to MaxHistorySize.
func (s *QueryStore) PushHistory(ctx context.Context, repo, query string) error {
	return s.mutate(ctx, repo, "push history", func(rec *domain.RepositoryRecord) bool {
		h := rec.QueryHistory
		if i := slices.Index(h, query); i != -1 {
			h = slices.Delete(h, i, i+1)
		}
		h = slices.Insert(h, 0, query)
		if len(h) > MaxHistorySize {
			h = h[:MaxHistorySize]
		}
		rec.QueryHistory = h
		return true
	})
}

// GetHistory returns a snapshot of the history, most recent first
func (s *QueryStore) GetHistory(ctx context.Context, repo string) ([]string, error) {
	rec, err := s.GetOrCreate(ctx, repo)
	if err != nil {
		return nil, err
	}
	return rec.QueryHistory, nil
}

// DeleteHistoryEntry removes query from the history if present
func (s *QueryStore) DeleteHistoryEntry(ctx context.Context, repo, query string) error {
	return s.mutate(ctx, repo, "delete history", func(rec *domain.RepositoryRecord) bool {
		i := slices.Index(rec.QueryHistory, query)
		if i == -1 {
			return false
		}
		rec.QueryHistory = slices.Delete(rec.QueryHistory, i, i+1)
		return true
	})
}

// ClearHistory empties the history and leaves saved queries alone
func (s *QueryStore) ClearHistory(ctx context.Context, repo string) error {
	return s.mutate(ctx, repo, "clear history", func(rec *domain.RepositoryRecord) bool {
		if len(rec.QueryHistory) == 0 {
			return false
		}
		rec.QueryHistory = []string{}
		return true
	})
}

// GetSavedQueries returns a snapshot of the saved queries in display order
func (s *QueryStore) GetSavedQueries(ctx context.Context, repo string) ([]domain.SavedQuery, error) {
	rec, err := s.GetOrCreate(ctx, repo)
	if err != nil {
		return nil, err
	}
	return rec.SavedQueries, nil
}

// GetSavedQuery returns the first saved query with the given id
func (s *QueryStore) GetSavedQuery(ctx context.Context, repo, id string) (*domain.SavedQuery, error) {
	saved, err := s.GetSavedQueries(ctx, repo)
	if err != nil {
		return nil, err
	}
	i := indexOfID(saved, id)
	if i == -1 {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrSavedQueryNotFound, id)
	}
	q := saved[i]
	return &q, nil
}

// AddSavedQuery appends q to the end of the list. The id must be non-empty
// and not already used in this repository.
func (s *QueryStore) AddSavedQuery(ctx context.Context, repo string, q domain.SavedQuery) error {
	if q.ID == "" {
		return apperrors.ValidationError{Field: "id", Message: "saved query id must not be empty"}
	}

	var dup bool
	err := s.mutate(ctx, repo, "add saved query", func(rec *domain.RepositoryRecord) bool {
		if indexOfID(rec.SavedQueries, q.ID) != -1 {
			dup = true
			return false
		}
		rec.SavedQueries = append(rec.SavedQueries, q)
		return true
	})
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("%w: %q", apperrors.ErrDuplicateSavedQuery, q.ID)
	}
	return nil
}

// UpdateSavedQuery replaces the entry with q's id in place
func (s *QueryStore) UpdateSavedQuery(ctx context.Context, repo string, q domain.SavedQuery) error {
	return s.mutate(ctx, repo, "update saved query", func(rec *domain.RepositoryRecord) bool {
		i := indexOfID(rec.SavedQueries, q.ID)
		if i == -1 {
			return false
		}
		rec.SavedQueries[i] = q
		return true
	})
}

// MoveSavedQuery shifts q one place in dir. Moving past either end, or
// moving an unknown query, changes nothing.
func (s *QueryStore) MoveSavedQuery(ctx context.Context, repo string, q domain.SavedQuery, dir domain.Direction) error {
	var offset int
	switch dir {
	case domain.DirectionUp:
		offset = -1
	case domain.DirectionDown:
		offset = 1
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidDirection, dir)
	}

	return s.mutate(ctx, repo, "move saved query", func(rec *domain.RepositoryRecord) bool {
		from := indexOfID(rec.SavedQueries, q.ID)
		if from == -1 {
			return false
		}
		moved, ok := moveElement(rec.SavedQueries, from, from+offset)
		if !ok {
			return false
		}
		rec.SavedQueries = moved
		return true
	})
}

// DeleteSavedQuery removes the first saved query with the given id
func (s *QueryStore) DeleteSavedQuery(ctx context.Context, repo, id string) error {
	return s.mutate(ctx, repo, "delete saved query", func(rec *domain.RepositoryRecord) bool {
		i := indexOfID(rec.SavedQueries, id)
		if i == -1 {
			return false
		}
		rec.SavedQueries = slices.Delete(rec.SavedQueries, i, i+1)
		return true
	})
}

// mutate runs fn against the current record while holding the repository's
// lock and writes the result back when fn reports a change.
func (s *QueryStore) mutate(ctx context.Context, repo, op string, fn func(rec *domain.RepositoryRecord) bool) error {
	unlock := s.locks.lock(repo)
	defer unlock()

	rec, err := s.getOrCreateLocked(ctx, repo)
	if err != nil {
		return err
	}

	if !fn(&rec) {
		s.logger.Debug("no change", slog.String("op", op), slog.String("repo", repo))
		return nil
	}

	if err := s.save(ctx, repo, rec); err != nil {
		return err
	}

	s.logger.Debug(op,
		slog.String("repo", repo),
		slog.Int("history", len(rec.QueryHistory)),
		slog.Int("saved", len(rec.SavedQueries)))

	return nil
}

// getOrCreateLocked must be called with the repository's lock held
func (s *QueryStore) getOrCreateLocked(ctx context.Context, repo string) (domain.RepositoryRecord, error) {
	rec, ok, err := s.load(ctx, repo)
	if err != nil {
		return domain.RepositoryRecord{}, err
	}
	if ok {
		return rec, nil
	}

	rec = domain.NewRepositoryRecord()
	if err := s.save(ctx, repo, rec); err != nil {
		return domain.RepositoryRecord{}, err
	}
	s.logger.Debug("created repository record", slog.String("repo", repo))
	return rec, nil
}

func (s *QueryStore) load(ctx context.Context, repo string) (domain.RepositoryRecord, bool, error) {
	key := RecordKey(repo)
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return domain.RepositoryRecord{}, false, fmt.Errorf("get %q: %w: %w", key, apperrors.ErrStorageUnavailable, err)
	}
	if !ok || raw == "" {
		return domain.RepositoryRecord{}, false, nil
	}

	var rec domain.RepositoryRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.RepositoryRecord{}, false, fmt.Errorf("decode %q: %w: %w", key, apperrors.ErrCorruptRecord, err)
	}
	if rec.QueryHistory == nil {
		rec.QueryHistory = []string{}
	}
	if rec.SavedQueries == nil {
		rec.SavedQueries = []domain.SavedQuery{}
	}
	return rec, true, nil
}

func (s *QueryStore) save(ctx context.Context, repo string, rec domain.RepositoryRecord) error {
	key := RecordKey(repo)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("set %q: %w: %w", key, apperrors.ErrStorageUnavailable, err)
	}
	return nil
}

func indexOfID(saved []domain.SavedQuery, id string) int {
	return slices.IndexFunc(saved, func(q domain.SavedQuery) bool { return q.ID == id })
}

// moveElement removes the element at from and reinserts it at to. It
// refuses out-of-range or equal indices instead of wrapping around.
func moveElement[T any](s []T, from, to int) ([]T, bool) {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) || from == to {
		return s, false
	}
	v := s[from]
	s = slices.Delete(s, from, from+1)
	return slices.Insert(s, to, v), true
}
