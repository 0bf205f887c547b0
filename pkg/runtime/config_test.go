package runtime

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("PEBBLE_PROJECT_ID", "proj-1")
	t.Setenv("PEBBLE_PUBLIC_KEY", "pk-1")
	t.Setenv("PEBBLE_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "proj-1", cfg.ProjectID)
	assert.Equal(t, "pk-1", cfg.PublicKey)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, int32(10), cfg.MaxConns)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("PEBBLE_DATABASE_URL=postgres://localhost/records\nPEBBLE_LOG_FORMAT=json\n"), 0o600))

	// godotenv sets process variables; clear them afterwards.
	t.Cleanup(func() {
		os.Unsetenv("PEBBLE_DATABASE_URL")
		os.Unsetenv("PEBBLE_LOG_FORMAT")
	})

	cfg, err := LoadConfig(file)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/records", cfg.DatabaseURL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.LogFormat = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	cfg = DefaultConfig()
	cfg.MinConns = 20
	assert.Error(t, cfg.Validate())
}

func TestNewLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"

	log, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "warning", log.GetLevel().String())

	cfg.LogLevel = "loud"
	_, err = NewLogger(cfg, nil)
	assert.Error(t, err)
}
