package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TRIPWISE_HTTP_ADDR", "CORS_ALLOWED_ORIGINS", "MAX_UPLOAD_MB", "TRIPWISE_DB_DSN", "REDIS_ADDR",
		"AI_PROVIDER", "GEMINI_API_KEY", "GEMINI_KEY", "OPENAI_API_KEY", "AI_MODEL", "AI_TIMEOUT", "AI_MAX_RETRIES",
		"GOOGLE_PLACES_API_KEY", "GOOGLE_MAPS_API_KEY", "PLACES_TIMEOUT", "PLACES_QPS",
		"PLACES_PHOTO_CONCURRENCY", "PLACES_PHOTO_CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2, cfg.AI.MaxRetries)
	assert.Equal(t, 3, cfg.Places.PhotoConcurrency)
	assert.Equal(t, 24*time.Hour, cfg.Places.PhotoCacheTTL)
	assert.Empty(t, cfg.Places.APIKey)
}

func TestLoadLegacyKeyNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_KEY", "legacy")
	t.Setenv("GOOGLE_MAPS_API_KEY", "maps")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.AI.GeminiKey)
	assert.Equal(t, "maps", cfg.Places.APIKey)
}

func TestLoadOpenAIRequiresKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_PROVIDER", "OpenAI")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_PROVIDER", "llama")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("PLACES_QPS", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("AI_MAX_RETRIES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2.5, cfg.Places.QPS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 2, cfg.AI.MaxRetries)
}
