package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	require.Len(t, config.Endpoints, 2)
	assert.Equal(t, "MA17", config.Endpoints[0].Label)
	assert.Equal(t, "MA18", config.Endpoints[1].Label)
	assert.Contains(t, config.Endpoints[1].URL, "id_form=44")
	assert.Equal(t, 60*time.Second, config.PollInterval)
	assert.Equal(t, -5*time.Second, config.JitterMin)
	assert.Equal(t, 8*time.Second, config.JitterMax)
	assert.Equal(t, 20*time.Second, config.FetchTimeout)
	assert.Equal(t, "Mozilla/5.0", config.UserAgent)
	assert.Equal(t, "fr-FR,fr;q=0.9", config.AcceptLanguage)
	assert.Equal(t, "", config.RedisAddr)
	assert.True(t, config.DesktopNotify)
	assert.Zero(t, config.RateLimitBlock)
	assert.Equal(t, "./slots.log", config.LogPath)
	assert.NoError(t, config.Validate())

	// Test with environment variables
	t.Setenv("ENDPOINTS", "A=http://a.example/cal?x=1&y=2, B=https://b.example/")
	t.Setenv("POLL_INTERVAL_SECONDS", "30")
	t.Setenv("JITTER_MIN_SECONDS", "-2")
	t.Setenv("JITTER_MAX_SECONDS", "2")
	t.Setenv("REDIS_ADDR", "redis.example.com:6379")
	t.Setenv("REDIS_DB", "1")
	t.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")
	t.Setenv("DESKTOP_NOTIFY", "false")
	t.Setenv("SLOT_LOG_PATH", "/tmp/slots.log")
	t.Setenv("RATE_LIMIT_BLOCK_SECONDS", "120")

	config = LoadConfig()
	require.Len(t, config.Endpoints, 2)
	assert.Equal(t, Endpoint{Label: "A", URL: "http://a.example/cal?x=1&y=2"}, config.Endpoints[0])
	assert.Equal(t, []string{"A", "B"}, config.Labels())
	assert.Equal(t, 30*time.Second, config.PollInterval)
	assert.Equal(t, -2*time.Second, config.JitterMin)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)
	assert.False(t, config.DesktopNotify)
	assert.Equal(t, "/tmp/slots.log", config.LogPath)
	assert.Equal(t, 2*time.Minute, config.RateLimitBlock)
}

func TestParseEndpointsSkipsMalformed(t *testing.T) {
	eps := ParseEndpoints("=http://x, NOURL=, broken, OK=https://ok.example/?a=b")
	assert.Equal(t, []Endpoint{{Label: "OK", URL: "https://ok.example/?a=b"}}, eps)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Endpoints:    []Endpoint{{Label: "MA17", URL: "https://example.com/cal"}},
			PollInterval: time.Minute,
			JitterMin:    -5 * time.Second,
			JitterMax:    8 * time.Second,
			FetchTimeout: 20 * time.Second,
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Endpoints = nil
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Endpoints = append(cfg.Endpoints, Endpoint{Label: "MA17", URL: "https://example.com/other"})
	assert.ErrorContains(t, cfg.Validate(), "duplicate")

	cfg = valid()
	cfg.Endpoints[0].URL = "ftp://example.com"
	assert.ErrorContains(t, cfg.Validate(), "invalid URL")

	cfg = valid()
	cfg.JitterMin = 10 * time.Second
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.SendGridAPIKey = "key"
	cfg.NotifyEmailFrom = "watcher@example.com"
	cfg.NotifyEmailTo = "me@example.com, not-an-address"
	assert.ErrorContains(t, cfg.Validate(), "not-an-address")

	cfg.NotifyEmailTo = "me@example.com, you@example.org"
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"me@example.com", "you@example.org"}, cfg.EmailRecipients())
}
