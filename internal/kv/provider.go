// Package kv provides the string key-value persistence backends the query
// store writes through. Values are opaque strings; callers own the encoding.
package kv

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	apperrors "github.com/shhac/prqueries/internal/errors"
)

// Provider is a string key-value store. Get reports ok=false for a key that
// has never been set. Set replaces the whole value in one step; a failed Set
// leaves the previous value intact.
type Provider interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Backend names accepted by Open
const (
	BackendMemory      = "memory"
	BackendFile        = "file"
	BackendSQLite      = "sqlite"
	BackendPreferences = "preferences"
)

// Backends lists every supported backend name.
var Backends = []string{BackendFile, BackendSQLite, BackendPreferences, BackendMemory}

const (
	fileName   = "store.json"
	sqliteName = "store.db"
)

// Options selects and configures a backend
type Options struct {
	Backend string
	Dir     string // Storage directory for file and sqlite backends

	// FyneApp is required for the preferences backend
	FyneApp fyne.App

	Logger *slog.Logger
}

// Open creates the provider named by opts.Backend. The returned close
// function is always non-nil.
func Open(ctx context.Context, opts Options) (Provider, func() error, error) {
	noop := func() error { return nil }
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch strings.ToLower(opts.Backend) {
	case BackendMemory:
		return NewMemoryProvider(), noop, nil

	case "", BackendFile:
		if opts.Dir == "" {
			return nil, noop, apperrors.ValidationError{Field: "storage", Message: "file backend needs a storage directory"}
		}
		return NewFileProvider(filepath.Join(opts.Dir, fileName), logger), noop, nil

	case BackendSQLite:
		if opts.Dir == "" {
			return nil, noop, apperrors.ValidationError{Field: "storage", Message: "sqlite backend needs a storage directory"}
		}
		p, err := OpenSQLiteProvider(ctx, filepath.Join(opts.Dir, sqliteName), logger)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil

	case BackendPreferences:
		if opts.FyneApp == nil {
			return nil, noop, apperrors.ValidationError{Field: "backend", Message: "preferences backend needs a fyne app"}
		}
		p := NewAppPreferencesProvider(opts.FyneApp)
		return p, p.Close, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", apperrors.ErrUnknownBackend, opts.Backend)
	}
}
