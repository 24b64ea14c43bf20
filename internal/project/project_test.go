package project

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	file := filepath.Join(nested, "x.seq")
	require.NoError(t, os.WriteFile(file, []byte("N in 0..1 {}"), 0o600))

	for _, start := range []string{nested, file} {
		path, ok, err := FindManifest(start)
		require.NoError(t, err)
		require.True(t, ok, start)
		assert.Equal(t, filepath.Join(root, ManifestName), path)
	}

	gotRoot, ok, err := FindProjectRoot(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, root, gotRoot)
}

func TestLoadMissingManifest(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	if _, ok, _ := FindManifest(dir); ok {
		t.Skip("a seqgen.toml exists above the temp dir")
	}
	assert.True(t, errors.Is(err, ErrNoManifest))

	cfg, m, err := LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, Default(), cfg)
}

func TestLoadKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[expand]
extension = "tmpl"
max_depth = 8
out_dir = "gen"

[log]
level = "debug"
`)
	m, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, m.Root)

	cfg := m.Config
	assert.Equal(t, ".tmpl", cfg.Expand.Extension)
	assert.Equal(t, 8, cfg.Expand.MaxDepth)
	assert.Equal(t, filepath.Join(dir, "gen"), cfg.Expand.OutDir)
	assert.True(t, cfg.Expand.Cache)
	assert.Equal(t, 100, cfg.Expand.MaxDiagnostics)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Expand.Jobs)

	lvl, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadExplicitFalse(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[expand]\ncache = false\njobs = 3\n")
	m, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, m.Config.Expand.Cache)
	assert.Equal(t, 3, m.Config.Expand.Jobs)
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[expand]
jobs = -1
max_depth = 0

[log]
level = "loud"
`)
	_, err := Load(dir)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "[expand].jobs must not be negative")
	assert.Contains(t, msg, "[expand].max_depth must be positive")
	assert.Contains(t, msg, `unknown level "loud"`)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[expand]\nthreads = 4\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expand.threads")
}

func TestLoadSyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[expand\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir, false)
	require.NoError(t, err)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = WriteDefault(dir, false)
	require.Error(t, err)
	_, err = WriteDefault(dir, true)
	require.NoError(t, err)
}
