package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ZIWEI_DB", "API_KEY", "GEMINI_API_KEY", "ZIWEI_GEMINI_MODEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def, cfg)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 3, cfg.Gemini.MaxAttempts)
}

func TestLoadOverlaysFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_path: /tmp/charts.db
format: grid
log:
  debug: true
gemini:
  model: gemini-2.5-pro
  timeout: 30s
batch:
  workers: 8
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/charts.db", cfg.DBPath)
	assert.Equal(t, "grid", cfg.Format)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 8, cfg.Batch.Workers)
	// Untouched keys keep their defaults.
	assert.Equal(t, int32(1024), cfg.Gemini.ThinkingBudget)
	assert.Equal(t, 3, cfg.Gemini.MaxAttempts)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GEMINI_API_KEY beats API_KEY", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_KEY", "legacy")
		t.Setenv("GEMINI_API_KEY", "gem")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "gem", cfg.Gemini.APIKey)
	})

	t.Run("API_KEY alone", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_KEY", "legacy")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "legacy", cfg.Gemini.APIKey)
	})

	t.Run("ZIWEI_DB and model", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ZIWEI_DB", "/data/z.db")
		t.Setenv("ZIWEI_GEMINI_MODEL", "gemini-x")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "/data/z.db", cfg.DBPath)
		assert.Equal(t, "gemini-x", cfg.Gemini.Model)
	})
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("format: html\n"), 0o644))
	_, err := Load(bad)
	assert.ErrorContains(t, err, "unknown format")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("gemini: [\n"), 0o644))
	_, err = Load(broken)
	assert.ErrorContains(t, err, "parse config")
}

func TestDefaultPathFromEnv(t *testing.T) {
	t.Setenv("ZIWEI_CONFIG", "/etc/ziwei.yaml")
	assert.Equal(t, "/etc/ziwei.yaml", DefaultPath())
}
