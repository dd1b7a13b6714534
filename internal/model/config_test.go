package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, "ws://localhost:8080/ws", cfg.Push.URL)
	assert.Equal(t, "/topic/notifications", cfg.Push.Topic)
	assert.Equal(t, 5, cfg.Push.ReconnectDelaySec)
}

func TestLoadConfigMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://homeland.example.com
push:
  reconnect_delay_sec: 0
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://homeland.example.com", cfg.API.BaseURL)
	// Unset keys fall back to defaults; a non-positive delay is corrected.
	assert.Equal(t, "/topic/notifications", cfg.Push.Topic)
	assert.Equal(t, 5, cfg.Push.ReconnectDelaySec)
}

func TestLoadConfigRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
