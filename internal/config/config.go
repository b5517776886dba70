// README: Config loader with env defaults for HTTP, AI providers, places, cache, ledger and logging.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type AIConfig struct {
	Provider   string
	GeminiKey  string
	OpenAIKey  string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type PlacesConfig struct {
	APIKey           string
	Timeout          time.Duration
	QPS              float64
	PhotoConcurrency int
	PhotoCacheTTL    time.Duration
}

type Config struct {
	HTTP struct {
		Addr           string
		AllowedOrigins []string
		MaxUploadMB    int
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Log struct {
		Level  string
		Format string
	}
	AI     AIConfig
	Places PlacesConfig
}

// Load reads the environment, seeding it from a .env file when one exists.
// Values already present in the environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("TRIPWISE_HTTP_ADDR", ":8000")
	cfg.HTTP.AllowedOrigins = envOrDefaultList("CORS_ALLOWED_ORIGINS", []string{"*"})
	cfg.HTTP.MaxUploadMB = envOrDefaultInt("MAX_UPLOAD_MB", 10)
	cfg.DB.DSN = os.Getenv("TRIPWISE_DB_DSN")
	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Log.Level = envOrDefault("LOG_LEVEL", "info")
	cfg.Log.Format = envOrDefault("LOG_FORMAT", "json")

	cfg.AI.Provider = strings.ToLower(envOrDefault("AI_PROVIDER", ProviderGemini))
	cfg.AI.GeminiKey = firstEnv("GEMINI_API_KEY", "GEMINI_KEY")
	cfg.AI.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AI.Timeout = envOrDefaultDuration("AI_TIMEOUT", 60*time.Second)
	cfg.AI.MaxRetries = envOrDefaultInt("AI_MAX_RETRIES", 2)

	switch cfg.AI.Provider {
	case ProviderGemini:
		cfg.AI.Model = envOrDefault("AI_MODEL", "gemini-2.0-flash")
		if cfg.AI.GeminiKey == "" {
			return cfg, errors.New("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
		}
	case ProviderOpenAI:
		cfg.AI.Model = envOrDefault("AI_MODEL", "gpt-4o-mini")
		if cfg.AI.OpenAIKey == "" {
			return cfg, errors.New("OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
	default:
		return cfg, fmt.Errorf("unsupported AI_PROVIDER %q (use gemini or openai)", cfg.AI.Provider)
	}

	cfg.Places.APIKey = firstEnv("GOOGLE_PLACES_API_KEY", "GOOGLE_MAPS_API_KEY")
	cfg.Places.Timeout = envOrDefaultDuration("PLACES_TIMEOUT", 15*time.Second)
	cfg.Places.QPS = envOrDefaultFloat("PLACES_QPS", 10)
	cfg.Places.PhotoConcurrency = envOrDefaultInt("PLACES_PHOTO_CONCURRENCY", 3)
	cfg.Places.PhotoCacheTTL = envOrDefaultDuration("PLACES_PHOTO_CACHE_TTL", 24*time.Hour)
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
