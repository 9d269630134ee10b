package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	apperrors "github.com/shhac/prqueries/internal/errors"
)

const (
	preferencesFile = "preferences.json"

	flushAttempts = 5
	flushBackoff  = 50 * time.Millisecond

	// fyne holds back saves for 100ms after each write
	saveDebounce = 150 * time.Millisecond
)

// stoppedHook is implemented by the lifecycle of apps built with
// fyne.io/fyne/v2/app. The returned func runs the app's exit path, which
// writes preferences synchronously.
type stoppedHook interface {
	OnStopped() func()
}

// PreferencesProvider stores values in a fyne application's preferences,
// the same place a desktop front-end keeps its own settings. An empty string
// is treated as absent since fyne cannot tell the two apart.
//
// fyne debounces preference writes and finishes them on the app's event
// loop, which a short-lived process never runs. Flush forces the pending
// write and checks the file on disk holds every value set since the last
// flush.
type PreferencesProvider struct {
	prefs fyne.Preferences

	flush func()
	path  string // preferences.json, empty when nothing can be verified

	mu      sync.Mutex
	pending map[string]string // set since the last flush
	flushed map[string]string // confirmed on disk, rechecked by Close
}

// NewPreferencesProvider wraps prefs, typically fyne.App.Preferences().
// Values are only as durable as fyne makes them; use NewAppPreferencesProvider
// when the process exits soon after writing.
func NewPreferencesProvider(prefs fyne.Preferences) *PreferencesProvider {
	return &PreferencesProvider{
		prefs:   prefs,
		pending: make(map[string]string),
		flushed: make(map[string]string),
	}
}

// NewAppPreferencesProvider wraps fa's preferences and hooks its exit path
// so Flush and Close persist them. fa needs a unique ID for anything to be
// written at all.
func NewAppPreferencesProvider(fa fyne.App) *PreferencesProvider {
	p := NewPreferencesProvider(fa.Preferences())

	hook, ok := fa.Lifecycle().(stoppedHook)
	if !ok || fa.UniqueID() == "" {
		return p
	}
	if p.flush = hook.OnStopped(); p.flush == nil {
		return p
	}
	if root := fa.Storage().RootURI(); root != nil {
		p.path = filepath.Join(root.Path(), preferencesFile)
	}
	return p
}

func (p *PreferencesProvider) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v := p.prefs.String(key)
	return v, v != "", nil
}

func (p *PreferencesProvider) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefs.SetString(key, value)
	p.pending[key] = value
	return nil
}

// Flush writes pending preferences to disk and confirms the stored values
// match the last Set of each key. It is a no-op for apps without an exit
// hook, such as fyne's test app.
func (p *PreferencesProvider) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.flush == nil || len(p.pending) == 0 {
		clear(p.pending)
		return nil
	}
	if err := p.writeAndVerify(ctx, p.pending); err != nil {
		return err
	}

	maps.Copy(p.flushed, p.pending)
	clear(p.pending)
	return nil
}

// Close flushes pending writes, then waits out fyne's save debounce: a save
// queued before the flush may still run and must leave the same values on
// disk.
func (p *PreferencesProvider) Close() error {
	ctx := context.Background()
	if err := p.Flush(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.flushed) == 0 || p.path == "" {
		return nil
	}

	time.Sleep(saveDebounce)
	if err := p.verify(p.flushed); err != nil {
		return p.writeAndVerify(ctx, p.flushed)
	}
	return nil
}

func (p *PreferencesProvider) writeAndVerify(ctx context.Context, want map[string]string) error {
	var err error
	for attempt := range flushAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(flushBackoff):
			}
		}

		p.flush()
		if p.path == "" {
			return nil
		}
		if err = p.verify(want); err == nil {
			return nil
		}
	}
	return err
}

// verify reads the preferences file back. fyne rewrites it in place, so a
// concurrent save can leave it briefly truncated; callers retry.
func (p *PreferencesProvider) verify(want map[string]string) error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("%w: read preferences: %w", apperrors.ErrStorageUnavailable, err)
	}

	var stored map[string]any
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("%w: decode %s: %w", apperrors.ErrStorageUnavailable, p.path, err)
	}

	for _, key := range slices.Sorted(maps.Keys(want)) {
		if got, _ := stored[key].(string); got != want[key] {
			return fmt.Errorf("%w: preferences file %s does not hold the last value of %q",
				apperrors.ErrStorageUnavailable, p.path, key)
		}
	}
	return nil
}
