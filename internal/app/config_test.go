package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PRQUERIES_DEBUG", "PRQUERIES_STORAGE_PATH", "PRQUERIES_BACKEND",
		"PRQUERIES_LOG_DIR", "PRQUERIES_CONFIG",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Debug)
	assert.Equal(t, "file", cfg.Backend)
	assert.Empty(t, cfg.StoragePath)
}

func TestLoadConfig_Env(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("PRQUERIES_DEBUG", "true")
	t.Setenv("PRQUERIES_STORAGE_PATH", dir)
	t.Setenv("PRQUERIES_BACKEND", "sqlite")
	t.Setenv("PRQUERIES_LOG_DIR", "/tmp/pq/logs")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, dir, cfg.StoragePath)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "/tmp/pq/logs", cfg.LogDir)
}

func TestLoadConfig_InvalidDebugIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRQUERIES_DEBUG", "maybe")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.False(t, cfg.Debug)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("PRQUERIES_STORAGE_PATH", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("debug: true\nbackend: sqlite\nlog_dir: /var/log/pq\n"), 0644))
	t.Setenv("PRQUERIES_BACKEND", "memory")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.Debug, "from file")
	assert.Equal(t, "/var/log/pq", cfg.LogDir, "from file")
	assert.Equal(t, "memory", cfg.Backend, "env wins over file")
	assert.Equal(t, dir, cfg.StoragePath)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.ConfigFile)
}

func TestLoadConfig_StorageDirLocatesFile(t *testing.T) {
	clearEnv(t)
	envDir, flagDir := t.TempDir(), t.TempDir()
	t.Setenv("PRQUERIES_STORAGE_PATH", envDir)
	require.NoError(t, os.WriteFile(filepath.Join(envDir, "config.yaml"), []byte("backend: sqlite\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(flagDir, "config.yaml"), []byte("backend: memory\n"), 0644))

	cfg, err := LoadConfig(flagDir)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Backend, "config.yaml next to the chosen storage")
	assert.Equal(t, flagDir, cfg.StoragePath, "storage dir wins over env")
	assert.Equal(t, filepath.Join(flagDir, "config.yaml"), cfg.ConfigFile)
}

func TestLoadConfig_MissingDefaultFileIsFine(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRQUERIES_STORAGE_PATH", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Backend)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadConfig_ExplicitFileMustExist(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRQUERIES_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: [unterminated"), 0644))
	t.Setenv("PRQUERIES_CONFIG", path)

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestResolveStoragePath(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	p, err := (&Config{StoragePath: "/explicit"}).ResolveStoragePath()
	require.NoError(t, err)
	assert.Equal(t, "/explicit", p)

	p, err = DefaultConfig().ResolveStoragePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".prqueries"), p)
}
