package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10, cfg.Download.ConcurrentDownloads)
	assert.Equal(t, int64(1001), cfg.Download.MinContentBytes)
	assert.Equal(t, 200*time.Millisecond, cfg.Download.PolitenessDelay)
	assert.Equal(t, 10*time.Second, cfg.Client.RequestTimeout)
	assert.Contains(t, cfg.Client.UserAgent, "Mozilla/5.0")
	assert.Equal(t, "property_details.json", cfg.Output.MetadataFile)
	assert.True(t, cfg.Retry.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"OUTPUT_DIR", "/tmp/test-listings")
	t.Setenv(EnvPrefix+"CONCURRENT_DOWNLOADS", "4")
	t.Setenv(EnvPrefix+"MIN_CONTENT_BYTES", "2048")
	t.Setenv(EnvPrefix+"REQUEST_TIMEOUT", "5s")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "/tmp/test-listings", cfg.Output.BaseDirectory)
	assert.Equal(t, 4, cfg.Download.ConcurrentDownloads)
	assert.Equal(t, int64(2048), cfg.Download.MinContentBytes)
	assert.Equal(t, 5*time.Second, cfg.Client.RequestTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidNumbers(t *testing.T) {
	t.Setenv(EnvPrefix+"CONCURRENT_DOWNLOADS", "many")
	t.Setenv(EnvPrefix+"REQUEST_TIMEOUT", "soon")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONCURRENT_DOWNLOADS")
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
	assert.Equal(t, 10, cfg.Download.ConcurrentDownloads)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero concurrency", func(c *Config) { c.Download.ConcurrentDownloads = 0 }, true},
		{"too much concurrency", func(c *Config) { c.Download.ConcurrentDownloads = 51 }, true},
		{"negative min bytes", func(c *Config) { c.Download.MinContentBytes = -1 }, true},
		{"zero timeout", func(c *Config) { c.Client.RequestTimeout = 0 }, true},
		{"empty output", func(c *Config) { c.Output.BaseDirectory = "" }, true},
		{"metadata file with path", func(c *Config) { c.Output.MetadataFile = "a/b.json" }, true},
		{"invalid log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"retry without attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, true},
		{"retry disabled without attempts", func(c *Config) {
			c.Retry.Enabled = false
			c.Retry.MaxAttempts = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Download.ConcurrentDownloads = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrent downloads must be positive")
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"output":     "/flag/output",
		"concurrent": 7,
		"min-bytes":  int64(0),
		"timeout":    3 * time.Second,
		"log-level":  "error",
		"rate":       30,
	})

	assert.Equal(t, "/flag/output", cfg.Output.BaseDirectory)
	assert.Equal(t, 7, cfg.Download.ConcurrentDownloads)
	assert.Equal(t, int64(0), cfg.Download.MinContentBytes)
	assert.Equal(t, 3*time.Second, cfg.Client.RequestTimeout)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Client.MaxRequestsPerMinute)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Download.ConcurrentDownloads = 6
	cfg.Download.PolitenessDelay = 750 * time.Millisecond
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))

	assert.Equal(t, 6, loaded.Download.ConcurrentDownloads)
	assert.Equal(t, 750*time.Millisecond, loaded.Download.PolitenessDelay)
	assert.Equal(t, cfg.Client.UserAgent, loaded.Client.UserAgent)
}

func TestLoadFromFileDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
client:
  request_timeout: 15s
download:
  concurrent_downloads: 2
  politeness_delay: 1s
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, 15*time.Second, cfg.Client.RequestTimeout)
	assert.Equal(t, 2, cfg.Download.ConcurrentDownloads)
	assert.Equal(t, time.Second, cfg.Download.PolitenessDelay)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// untouched sections keep their defaults
	assert.Equal(t, int64(1001), cfg.Download.MinContentBytes)
}

func TestLoadFromFileErrors(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("download: [unclosed"), 0644))
	assert.Error(t, cfg.LoadFromFile(bad))
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download:\n  concurrent_downloads: 2\noutput:\n  base_directory: /from/file\n"), 0644))
	t.Setenv(EnvPrefix+"OUTPUT_DIR", "/from/env")

	cfg, err := Load(path, map[string]interface{}{"concurrent": 9})
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.Output.BaseDirectory)
	assert.Equal(t, 9, cfg.Download.ConcurrentDownloads)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: shouty\n"), 0644))

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}
