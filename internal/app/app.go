package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"fyne.io/fyne/v2"
	"github.com/shhac/prqueries/internal/kv"
	"github.com/shhac/prqueries/internal/logging"
	"github.com/shhac/prqueries/internal/storage"
)

// AppName names the log file and directories
const AppName = "prqueries"

// App is the main application coordinator, responsible for wiring
// together all components and managing their lifecycle.
type App struct {
	config  *Config
	logger  *slog.Logger
	store   *storage.QueryStore
	fyneApp fyne.App

	closers []func() error
}

// Option customises New
type Option func(*App)

// WithLogger replaces the file logger, mainly for tests
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithFyneApp supplies the fyne application whose preferences back the
// "preferences" storage backend.
func WithFyneApp(fa fyne.App) Option {
	return func(a *App) { a.fyneApp = fa }
}

// New creates a new App instance with the given configuration.
// This performs all dependency injection and wiring.
func New(ctx context.Context, cfg *Config, opts ...Option) (*App, error) {
	a := &App{config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		logger, closer, err := logging.InitLogger(logging.Options{
			AppName: AppName,
			Debug:   cfg.Debug,
			Dir:     cfg.LogDir,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = logger
		a.closers = append(a.closers, closer.Close)
	}

	storagePath, err := cfg.ResolveStoragePath()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to determine storage path: %w", err)
	}

	a.logger.Info("initializing application",
		slog.Bool("debug", cfg.Debug),
		slog.String("backend", cfg.Backend),
		slog.String("storage_path", storagePath),
		slog.String("config_file", cfg.ConfigFile),
	)

	provider, closeProvider, err := kv.Open(ctx, kv.Options{
		Backend: cfg.Backend,
		Dir:     storagePath,
		FyneApp: a.fyneApp,
		Logger:  a.logger,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open %q storage: %w", cfg.Backend, err)
	}
	// Provider goes first so it is closed before the log file
	a.closers = append([]func() error{closeProvider}, a.closers...)

	a.store = storage.NewQueryStore(provider, a.logger)

	a.logger.Info("application initialized successfully")
	return a, nil
}

// Store returns the query store.
func (a *App) Store() *storage.QueryStore {
	return a.store
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Config returns the configuration the app was built with.
func (a *App) Config() *Config {
	return a.config
}

// Close releases the storage backend and the log file.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

var _ io.Closer = (*App)(nil)
