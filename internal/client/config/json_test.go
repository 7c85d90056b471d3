package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"proxy_url":            "https://proxy.example",
		"client_id":            "abc",
		"poll_interval":        "1s",
		"processing_timeout":   float64(2 * time.Minute),
		"s3_access_key_id":     "minio",
		"s3_secret_access_key": "secret",
		"s3_use_path_style":    true,
	})

	t.Run("overlays present keys", func(t *testing.T) {
		os.Args = []string{"cli", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "https://proxy.example", cfg.ProxyURL)
		assert.Equal(t, "abc", cfg.ClientID)
		assert.Equal(t, time.Second, cfg.PollInterval)
		assert.Equal(t, 2*time.Minute, cfg.ProcessingTimeout)
		assert.Equal(t, "minio", cfg.S3AccessKeyID)
		assert.True(t, cfg.S3UsePathStyle)

		assert.Equal(t, "https://api.contentful.com", cfg.CMSAPIURL, "absent keys keep defaults")
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})

	t.Run("no config flag", func(t *testing.T) {
		os.Args = []string{"cli"}

		cfg := &Config{ProxyURL: "keep"}
		parseJson(cfg)
		assert.Equal(t, "keep", cfg.ProxyURL)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"cli", "-c", filepath.Join(t.TempDir(), "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("bad json panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		os.Args = []string{"cli", "-c", bad}
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("flags win over json", func(t *testing.T) {
		os.Args = []string{"cli", "-c", path, "-p", "https://flag.example"}

		cfg := LoadConfig()
		assert.Equal(t, "https://flag.example", cfg.ProxyURL)
		assert.Equal(t, "abc", cfg.ClientID)
	})
}
