package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shhac/prqueries/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repo = "/src/github.com/acme/widgets"

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("PRQUERIES_CONFIG", "")
	t.Setenv("PRQUERIES_DEBUG", "")
	t.Setenv("PRQUERIES_BACKEND", "")
	t.Setenv("PRQUERIES_STORAGE_PATH", dir)
	t.Setenv("PRQUERIES_LOG_DIR", t.TempDir())
	return dir
}

func run(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = runApp(append([]string{"--repo", repo}, args...), &out, &errOut)
	return out.String(), errOut.String(), code
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, code := run(t, args...)
	require.Zero(t, code, "prqueries %s: %s", strings.Join(args, " "), errOut)
	return out
}

func TestHistoryCommands(t *testing.T) {
	setupEnv(t)

	mustRun(t, "history", "push", "is:open")
	mustRun(t, "history", "push", "  author:@me  ")
	mustRun(t, "history", "push", "is:open")

	var h []string
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "--json", "history", "list")), &h))
	assert.Equal(t, []string{"is:open", "author:@me"}, h)

	mustRun(t, "history", "delete", "author:@me")
	out := mustRun(t, "history", "list")
	assert.Contains(t, out, "is:open")
	assert.NotContains(t, out, "author:@me")

	mustRun(t, "history", "clear")
	assert.Contains(t, mustRun(t, "history", "list"), "No query history.")
}

func TestHistoryDelete_TrimsLikePush(t *testing.T) {
	setupEnv(t)

	mustRun(t, "history", "push", "  is:open  ")
	mustRun(t, "history", "push", "author:@me")
	mustRun(t, "history", "delete", "  is:open ")

	var h []string
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "--json", "history", "list")), &h))
	assert.Equal(t, []string{"author:@me"}, h)

	// blank deletes are a no-op rather than a validation error
	mustRun(t, "history", "delete", "   ")
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "--json", "history", "list")), &h))
	assert.Equal(t, []string{"author:@me"}, h)
}

func TestHistoryPush_BlankQueryRejected(t *testing.T) {
	setupEnv(t)

	_, errOut, code := run(t, "history", "push", "   ")

	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "query is required")
}

func TestSavedCommands(t *testing.T) {
	setupEnv(t)

	mustRun(t, "saved", "add", "--id", "1", "--name", "Mine", "author:@me")
	mustRun(t, "saved", "add", "--id", "2", "--name", "Reviews", "review-requested:@me")
	generated := strings.TrimSpace(mustRun(t, "saved", "add", "--name", "Open", "is:open"))
	assert.Len(t, generated, 36, "uuid expected, got %q", generated)

	mustRun(t, "saved", "move", "2", "up")
	mustRun(t, "saved", "update", "1", "--name", "Authored", "--query", " author:@me is:open ")

	var saved []domain.SavedQuery
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "--json", "saved", "list")), &saved))
	require.Len(t, saved, 3)
	assert.Equal(t, domain.SavedQuery{ID: "2", Name: "Reviews", Query: "review-requested:@me"}, saved[0])
	assert.Equal(t, domain.SavedQuery{ID: "1", Name: "Authored", Query: "author:@me is:open"}, saved[1])
	assert.Equal(t, generated, saved[2].ID)

	table := mustRun(t, "saved", "list")
	assert.Contains(t, table, "Reviews")
	assert.Contains(t, table, "review-requested:@me")

	assert.Contains(t, mustRun(t, "saved", "show", "1"), "Authored")

	mustRun(t, "saved", "delete", "2")
	mustRun(t, "saved", "delete", "does-not-exist")
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "--json", "saved", "list")), &saved))
	assert.Len(t, saved, 2)
}

func TestSaved_Errors(t *testing.T) {
	setupEnv(t)
	mustRun(t, "saved", "add", "--id", "1", "is:open")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"duplicate id", []string{"saved", "add", "--id", "1", "is:closed"}, "Duplicate Saved Query"},
		{"unknown id", []string{"saved", "show", "nope"}, "Saved Query Not Found"},
		{"bad direction", []string{"saved", "move", "1", "sideways"}, "Invalid Direction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := run(t, tt.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestBackendFlag(t *testing.T) {
	setupEnv(t)

	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			mustRun(t, "--backend", backend, "history", "push", "via-"+backend)
			assert.Contains(t, mustRun(t, "--backend", backend, "history", "list"), "via-"+backend)
		})
	}

	_, errOut, code := run(t, "--backend", "redis", "history", "list")
	assert.Equal(t, 3, code)
	assert.Contains(t, errOut, "Unknown Backend")
}

func TestPreferencesBackend_WritesSurviveExit(t *testing.T) {
	if !fyneHeadless {
		t.Skip("preferences backend needs the headless fyne driver (-tags ci)")
	}
	setupEnv(t)
	t.Setenv("TMPDIR", t.TempDir())

	prefs := func(args ...string) string {
		return mustRun(t, append([]string{"--backend", "preferences"}, args...)...)
	}

	// Each run is a fresh process-like app: the first Set creates the empty
	// record and the second, inside fyne's save debounce, adds the entry.
	prefs("history", "push", "is:open")

	var h []string
	require.NoError(t, json.Unmarshal([]byte(prefs("--json", "history", "list")), &h))
	assert.Equal(t, []string{"is:open"}, h)

	prefs("history", "push", "author:@me")
	prefs("saved", "add", "--id", "1", "--name", "Mine", "author:@me")
	prefs("saved", "add", "--id", "2", "--name", "Open", "is:open")
	prefs("saved", "move", "2", "up")

	require.NoError(t, json.Unmarshal([]byte(prefs("--json", "history", "list")), &h))
	assert.Equal(t, []string{"author:@me", "is:open"}, h)

	var saved []domain.SavedQuery
	require.NoError(t, json.Unmarshal([]byte(prefs("--json", "saved", "list")), &saved))
	require.Len(t, saved, 2)
	assert.Equal(t, "2", saved[0].ID)
	assert.Equal(t, "1", saved[1].ID)
}

func TestStorageFlag_ReadsItsConfigFile(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: sqlite\n"), 0644))

	mustRun(t, "--storage", dir, "history", "push", "is:open")

	assert.FileExists(t, filepath.Join(dir, "store.db"))
	assert.NoFileExists(t, filepath.Join(dir, "store.json"))
	assert.Contains(t, mustRun(t, "--storage", dir, "history", "list"), "is:open")
}

func TestRepositoriesAreSeparate(t *testing.T) {
	setupEnv(t)

	mustRun(t, "history", "push", "only-here")

	var out, errOut bytes.Buffer
	code := runApp([]string{"--repo", "/src/other", "--json", "history", "list"}, &out, &errOut)
	require.Zero(t, code, errOut.String())
	assert.JSONEq(t, "[]", out.String())
}
