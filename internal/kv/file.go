package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	filePermission = 0644
	dirPermission  = 0755
)

// FileProvider implements Provider on top of a single JSON object file.
// Every Set rewrites the whole file atomically, so readers (including other
// processes) see either the old or the new contents, never a mix.
type FileProvider struct {
	path   string
	logger *slog.Logger

	// mu serialises read-modify-write of the file within this process
	mu sync.Mutex
}

// NewFileProvider creates a provider backed by the JSON file at path.
// The file and its directory are created on first write.
func NewFileProvider(path string, logger *slog.Logger) *FileProvider {
	return &FileProvider{
		path:   path,
		logger: logger,
	}
}

// Get returns the value stored under key
func (p *FileProvider) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	values, err := p.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set stores value under key and rewrites the file
func (p *FileProvider) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	values, err := p.load()
	if err != nil {
		return err
	}
	values[key] = value

	if err := os.MkdirAll(filepath.Dir(p.path), dirPermission); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	if err := atomicWriteFile(p.path, data, filePermission); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}

	p.logger.Debug("wrote store file",
		slog.String("key", key),
		slog.String("path", p.path),
		slog.Int("keys", len(values)))

	return nil
}

// load reads the whole key space from disk
func (p *FileProvider) load() (map[string]string, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing written yet
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("unmarshal store file %s: %w", p.path, err)
	}
	return values, nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file
// in the same directory, syncing, then renaming over the target path.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}
