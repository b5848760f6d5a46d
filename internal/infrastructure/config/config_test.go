package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://forkify-api.herokuapp.com/api", cfg.Forkify.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Forkify.Timeout)
	assert.Equal(t, 4, cfg.Recipe.DefaultServings)
	assert.Equal(t, 15, cfg.Recipe.MinutesPerIngredient)
	assert.Equal(t, 10, cfg.Search.PageSize)
	assert.Equal(t, 17, cfg.Search.TitleLimit)
	assert.Equal(t, "file", cfg.Likes.Backend)
	assert.Equal(t, "likes", cfg.Likes.Key)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, time.Second, cfg.DedupWindow)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("LIKES_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("FORKIFY_TIMEOUT", "3s")
	t.Setenv("APP_SEARCH_PAGE_SIZE", "20")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Likes.Backend)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 3*time.Second, cfg.Forkify.Timeout)
	assert.Equal(t, 20, cfg.Search.PageSize)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("LIKES_BACKEND", "mongo")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "unknown likes backend")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			Forkify: ForkifyConfig{BaseURL: "http://localhost", Timeout: time.Second},
			Recipe:  RecipeConfig{DefaultServings: 4, MinutesPerIngredient: 15},
			Search:  SearchConfig{PageSize: 10},
			Likes:   LikesConfig{Backend: "memory", Key: "likes"},
		}
	}
	require.NoError(t, validateConfig(valid()))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no port", func(c *Config) { c.Server.Port = 0 }},
		{"no base url", func(c *Config) { c.Forkify.BaseURL = "" }},
		{"zero servings", func(c *Config) { c.Recipe.DefaultServings = 0 }},
		{"zero page size", func(c *Config) { c.Search.PageSize = 0 }},
		{"file without path", func(c *Config) { c.Likes.Backend = "file" }},
		{"empty key", func(c *Config) { c.Likes.Key = "" }},
		{"cache without size", func(c *Config) { c.Cache = CacheConfig{Enabled: true, TTL: time.Minute, CleanupInterval: time.Minute} }},
		{"bad rate limit", func(c *Config) { c.RateLimit = RateLimitConfig{Enabled: true} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}
