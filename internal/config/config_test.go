package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, GeocoderGoogle, cfg.Providers.Geocoder)
	assert.Equal(t, "preserve", cfg.Recommend.MergePolicy)
	assert.Equal(t, 10, cfg.Recommend.CandidateCount)
	assert.Equal(t, 800, cfg.Providers.PhotoMaxWidth)
	assert.Equal(t, 10*time.Second, cfg.Providers.HTTPTimeout)
	assert.False(t, cfg.Archive.Enabled)
	assert.Empty(t, cfg.Providers.GoogleAPIKey)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte("recommend:\n  candidate_count: 20\n  merge_policy: secondary_only\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("CANDIDATE_COUNT", "5")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("RATE_LIMIT_REQUESTS", "10")
	t.Setenv("WIKIPEDIA_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Recommend.CandidateCount)
	assert.Equal(t, "secondary_only", cfg.Recommend.MergePolicy)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "g-key", cfg.Providers.GoogleAPIKey)
	assert.Equal(t, 3*time.Second, cfg.Providers.HTTPTimeout)
	assert.True(t, cfg.Archive.UseSSL)
	assert.Equal(t, 10, cfg.Server.RateLimitRequests)
	assert.True(t, cfg.Providers.WikipediaEnabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "merge policy", key: "MERGE_POLICY", val: "latest_wins"},
		{name: "geocoder", key: "GEOCODER", val: "bing"},
		{name: "candidate count", key: "CANDIDATE_COUNT", val: "0"},
		{name: "archive without endpoint", key: "ARCHIVE_ENABLED", val: "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	assert.Equal(t, "providers.hotpepper_api_key", envTransformFunc("HOTPEPPER_API_KEY"))
	assert.Equal(t, "archive.endpoint", envTransformFunc("MINIO_ENDPOINT"))
	assert.Empty(t, envTransformFunc("PATH"))
}
