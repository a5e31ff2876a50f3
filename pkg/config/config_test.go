package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Entries)
	assert.Contains(t, cfg.Exclude.Dirs, "node_modules")
	assert.Contains(t, cfg.Exclude.Patterns, "*.min.js")
	assert.True(t, cfg.Exclude.Gitignore)
	assert.Equal(t, 2, cfg.Duplicates.MinGroupSize)
	assert.InDelta(t, 0.8, cfg.Duplicates.FuzzyThreshold, 0.001)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Cache.Enabled)
	assert.Empty(t, cfg.Cache.Dir)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lignin.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
entries = ["src/main.js", "src/worker.js"]

[analysis]
workers = 4
max_file_size = 500000

[duplicates]
min_group_size = 3
exclude_names = ["constructor"]

[output]
format = "json"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/main.js", "src/worker.js"}, cfg.Entries)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, int64(500000), cfg.Analysis.MaxFileSize)
	assert.Equal(t, 3, cfg.Duplicates.MinGroupSize)
	assert.Equal(t, []string{"constructor"}, cfg.Duplicates.ExcludeNames)
	assert.Equal(t, "json", cfg.Output.Format)

	// Untouched sections keep their defaults.
	assert.Contains(t, cfg.Exclude.Dirs, "node_modules")
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lignin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
entries:
  - index.js
exclude:
  dirs:
    - generated
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"index.js"}, cfg.Entries)
	assert.Equal(t, []string{"generated"}, cfg.Exclude.Dirs)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lignin.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"duplicates": {"fuzzy_threshold": 0.9}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.9, cfg.Duplicates.FuzzyThreshold, 0.001)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(wd)
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg := LoadOrDefault()
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOrDefaultFindsFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(wd)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lignin.toml"), []byte(`entries = ["a.js"]`), 0o644))
	require.NoError(t, os.Chdir(dir))

	cfg := LoadOrDefault()
	assert.Equal(t, []string{"a.js"}, cfg.Entries)
}
