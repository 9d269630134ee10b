package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shhac/prqueries/internal/kv"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Config holds application-wide configuration.
type Config struct {
	// Debug enables debug logging and additional diagnostics
	Debug bool `yaml:"debug"`

	// StoragePath is the directory holding the store and config file
	StoragePath string `yaml:"storage_path"`

	// Backend selects the persistence provider (file, sqlite, preferences, memory)
	Backend string `yaml:"backend"`

	// LogDir overrides the platform log directory
	LogDir string `yaml:"log_dir"`

	// ConfigFile is the YAML file the config was read from, if any
	ConfigFile string `yaml:"-"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:       false,
		StoragePath: "", // Resolved with kv.DefaultStoragePath()
		Backend:     kv.BackendFile,
	}
}

// LoadConfig builds the configuration from defaults, then the YAML config
// file, then environment variables. storageDir is the storage directory
// given on the command line, if any; it wins over PRQUERIES_STORAGE_PATH.
//
// The file is PRQUERIES_CONFIG when set, otherwise config.yaml in the
// storage directory; a missing default file is not an error.
func LoadConfig(storageDir string) (*Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("PRQUERIES_CONFIG")
	explicit := path != ""
	if !explicit {
		dir := storageDir
		if dir == "" {
			dir = os.Getenv("PRQUERIES_STORAGE_PATH")
		}
		if dir == "" {
			var err error
			if dir, err = kv.DefaultStoragePath(); err != nil {
				return nil, fmt.Errorf("failed to determine storage path: %w", err)
			}
		}
		path = filepath.Join(dir, configFileName)
	}

	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg.applyEnv()
	if storageDir != "" {
		cfg.StoragePath = storageDir
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.ConfigFile = path
	return nil
}

func (c *Config) applyEnv() {
	if debugStr := os.Getenv("PRQUERIES_DEBUG"); debugStr != "" {
		if debug, err := strconv.ParseBool(debugStr); err == nil {
			c.Debug = debug
		}
	}
	if storagePath := os.Getenv("PRQUERIES_STORAGE_PATH"); storagePath != "" {
		c.StoragePath = storagePath
	}
	if backend := os.Getenv("PRQUERIES_BACKEND"); backend != "" {
		c.Backend = backend
	}
	if logDir := os.Getenv("PRQUERIES_LOG_DIR"); logDir != "" {
		c.LogDir = logDir
	}
}

// ResolveStoragePath returns StoragePath or the platform default
func (c *Config) ResolveStoragePath() (string, error) {
	if c.StoragePath != "" {
		return c.StoragePath, nil
	}
	return kv.DefaultStoragePath()
}
