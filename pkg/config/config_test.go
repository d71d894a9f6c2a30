package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "key")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "us", cfg.News.DefaultCountry)
	assert.Equal(t, 10*time.Second, cfg.News.Timeout)
	assert.Equal(t, 200, cfg.Feed.SeenCap)
	assert.Equal(t, 50, cfg.Feed.PageCeiling)
	assert.False(t, cfg.Redis.Enabled)
	assert.Empty(t, cfg.JWT.SecretKey)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "key")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("FEED_SEEN_CAP", "20")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("NEWS_CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Feed.SeenCap)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 90*time.Second, cfg.News.CacheTTL)
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "")
	t.Setenv("DB_PASSWORD", "secret")
	_, err := Load()
	assert.ErrorContains(t, err, "news api key")

	t.Setenv("NEWS_API_KEY", "key")
	t.Setenv("DB_PASSWORD", "")
	_, err = Load()
	assert.ErrorContains(t, err, "database password")
}

func TestLoad_RejectsBadSeenCap(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "key")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("FEED_SEEN_CAP", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}
