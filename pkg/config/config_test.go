package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 60*time.Second, c.Cache.TTL)
	assert.Equal(t, 30*time.Second, c.Cache.ClientTTL)
	assert.Equal(t, 8*time.Second, c.Upstream.Timeout)
	assert.Equal(t, 5, c.Batch.ChunkSize)
	assert.Equal(t, 20, c.Batch.MaxSymbols)
	assert.Equal(t, 30*time.Second, c.Stream.Interval)
	assert.True(t, c.Metrics.Enabled)
	assert.False(t, c.Kafka.Enabled)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
environment: production
server:
  port: 9090
cache:
  backend: layered
  ttl: 45s
metrics:
  enabled: false
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "layered", c.Cache.Backend)
	assert.Equal(t, 45*time.Second, c.Cache.TTL)
	assert.False(t, c.Metrics.Enabled)
	// untouched sections keep defaults
	assert.Equal(t, "localhost", c.Cache.Redis.Host)
	assert.Equal(t, 10*time.Second, c.Server.ReadTimeout)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
environment = "staging"

[batch]
chunk_size = 3

[stream]
interval = "15s"
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", c.Environment)
	assert.Equal(t, 3, c.Batch.ChunkSize)
	assert.Equal(t, 15*time.Second, c.Stream.Interval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown backend":     "cache:\n  backend: disk\n",
		"kafka w/o brokers":   "kafka:\n  enabled: true\n",
		"bad port":            "server:\n  port: 70000\n",
		"bad environment":     "environment: qa\n",
		"zero chunk size":     "batch:\n  chunk_size: 0\n",
		"bad upstream url":    "upstream:\n  yahoo_base_url: not a url\n",
		"unknown compression": "kafka:\n  compression: brotli\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load(writeFile(t, "config.json", "{}"))
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FINQUOTE_PORT":          "7000",
		"FINQUOTE_CACHE_BACKEND": "redis",
		"FINQUOTE_KAFKA_ENABLED": "true",
		"FINQUOTE_KAFKA_BROKERS": "k1:9092,k2:9092",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	c := Default()
	require.NoError(t, c.applyEnv(lookup))
	assert.Equal(t, 7000, c.Server.Port)
	assert.Equal(t, "redis", c.Cache.Backend)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	require.NoError(t, c.Validate())
}

func TestApplyEnv_BadNumber(t *testing.T) {
	c := Default()
	err := c.applyEnv(func(k string) (string, bool) {
		if k == "FINQUOTE_PORT" {
			return "eighty", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, "FINQUOTE_PORT")
}
