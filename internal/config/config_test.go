package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://eutils.ncbi.nlm.nih.gov/entrez/eutils", cfg.PubMed.BaseURL)
	assert.Equal(t, "get-papers-list", cfg.PubMed.Tool)
	assert.Empty(t, cfg.PubMed.APIKey)
	assert.Equal(t, 10000, cfg.Fetch.MaxResults)
	assert.Equal(t, 100, cfg.Fetch.BatchSize)
	assert.Equal(t, 30, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, "pubmed-papers.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	yaml := `
pubmed:
  email: jane@example.org
  api_key: secret
fetch:
  max_results: 250
  batch_size: 50
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "jane@example.org", cfg.PubMed.Email)
	assert.Equal(t, "secret", cfg.PubMed.APIKey)
	assert.Equal(t, 250, cfg.Fetch.MaxResults)
	assert.Equal(t, 50, cfg.Fetch.BatchSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for untouched keys.
	assert.Equal(t, "get-papers-list", cfg.PubMed.Tool)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	t.Setenv("PUBMED_PUBMED_API_KEY", "env-key")
	t.Setenv("PUBMED_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.PubMed.APIKey)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
