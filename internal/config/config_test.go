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
	for _, k := range []string{
		"JOTTER_API_URL", "JOTTER_WEB_URL", "JOTTER_HOME",
		"JOTTER_LOG_LEVEL", "JOTTER_LOG_FORMAT", "JOTTER_HTTP_TIMEOUT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k) //nolint:errcheck // restored by t.Setenv
	}
	t.Chdir(t.TempDir()) // keep a stray .env out of the test
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "/home/jo")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, "http://localhost:3000", cfg.WebURL)
	assert.Equal(t, filepath.Join("/home/jo", ".jotter"), cfg.Home)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, filepath.Join("/home/jo", ".jotter", "jotter.log"), cfg.LogPath())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOTTER_API_URL", "https://notes.example.com/api")
	t.Setenv("JOTTER_HOME", "/tmp/jotter-test")
	t.Setenv("JOTTER_LOG_LEVEL", "debug")
	t.Setenv("JOTTER_HTTP_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://notes.example.com/api", cfg.APIURL)
	assert.Equal(t, "/tmp/jotter-test", cfg.Home)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoadRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"localhost:8000", "ftp://example.com", "not a url"} {
		t.Run(raw, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JOTTER_API_URL", raw)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
