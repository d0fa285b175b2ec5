package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultMode, cfg.Mode)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultGroqModel, cfg.GroqModel)
	assert.Equal(t, DefaultFacetDelay, cfg.FacetDelay)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COLLECTOR_MODE", " Public ")
	t.Setenv("REDDIT_CLIENT_ID", "id")
	t.Setenv("REDDIT_CLIENT_SECRET", "secret")
	t.Setenv("REDDIT_USER_AGENT", "harvester/1.0")
	t.Setenv("FACET_DELAY", "250ms")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "public", cfg.Mode)
	assert.Equal(t, "id", cfg.Credentials.ClientID)
	assert.Equal(t, "secret", cfg.Credentials.ClientSecret)
	assert.Equal(t, "harvester/1.0", cfg.Credentials.UserAgent)
	assert.Equal(t, 250*time.Millisecond, cfg.FacetDelay)
	assert.NoError(t, cfg.Credentials.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("OUTPUT_DIR: exports\nGROQ_MODEL: other-model\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "exports", cfg.OutputDir)
	assert.Equal(t, "other-model", cfg.GroqModel)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestCredentialsValidate(t *testing.T) {
	err := Credentials{ClientID: "id"}.Validate()
	require.ErrorIs(t, err, ErrMissingCredentials)
	assert.Contains(t, err.Error(), "REDDIT_CLIENT_SECRET")
	assert.Contains(t, err.Error(), "REDDIT_USER_AGENT")
	assert.NotContains(t, err.Error(), "REDDIT_CLIENT_ID")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Config{LogLevel: "warn", LogFormat: "text"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "k=v")
}
