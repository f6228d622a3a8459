package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/affiliate-hub-go/internal/util"
)

// Favorites backends.
const (
	FavoritesRedis  = "redis"
	FavoritesBolt   = "bolt"
	FavoritesMemory = "memory"
)

// Concierge sampling presets.
const (
	PresetBalanced = "balanced"
	PresetCreative = "creative"
	PresetPrecise  = "precise"
)

type Config struct {
	HTTP      HTTPConfig
	Notion    NotionConfig
	Sync      SyncConfig
	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Concierge ConciergeConfig
	Favorites FavoritesConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Chat      ChatConfig
	Logging   LoggingConfig
}

type HTTPConfig struct {
	Addr           string
	AllowedOrigins []string
}

type NotionConfig struct {
	APIKey     string
	DatabaseID string
}

type SyncConfig struct {
	Interval time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey         string
	Model          string
	EnableFallback bool
}

// ConciergeConfig tunes generation. A zero Temperature keeps the preset's value.
type ConciergeConfig struct {
	Preset      string
	Temperature float64
}

type FavoritesConfig struct {
	Backend  string
	BoltPath string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type ChatConfig struct {
	RatePerMinute int
}

type LoggingConfig struct {
	Level string
	File  string
}

// Load reads .env when present, then the environment. Missing credentials are
// not errors: the catalog falls back to the bundled dataset and the concierge
// to its configuration hint.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:           getEnv("HTTP_ADDR", ":8080"),
			AllowedOrigins: parseCommaSeparated(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Notion: NotionConfig{
			APIKey:     getEnv("NOTION_API_KEY", ""),
			DatabaseID: getEnv("NOTION_DATABASE_ID", ""),
		},
		Sync: SyncConfig{
			Interval: time.Duration(getEnvInt("SYNC_INTERVAL_MINUTES", 0)) * time.Minute,
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			EnableFallback: getEnvBool("OPENAI_ENABLE_FALLBACK", true),
		},
		Concierge: ConciergeConfig{
			Preset:      util.Normalize(getEnv("AI_PRESET", PresetBalanced)),
			Temperature: getEnvFloat("AI_TEMPERATURE", 0),
		},
		Favorites: FavoritesConfig{
			Backend:  util.Normalize(getEnv("FAVORITES_BACKEND", FavoritesBolt)),
			BoltPath: getEnv("FAVORITES_BOLT_PATH", "data/favorites.db"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", ""),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "affiliatehub"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "affiliatehub"),
		},
		Chat: ChatConfig{
			RatePerMinute: getEnvInt("CHAT_RATE_PER_MINUTE", 30),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	switch c.Favorites.Backend {
	case FavoritesRedis, FavoritesMemory:
	case FavoritesBolt:
		if strings.TrimSpace(c.Favorites.BoltPath) == "" {
			return fmt.Errorf("FAVORITES_BOLT_PATH is required for the bolt backend")
		}
	default:
		return fmt.Errorf("FAVORITES_BACKEND must be one of redis, bolt, memory (got %q)", c.Favorites.Backend)
	}
	switch c.Concierge.Preset {
	case PresetBalanced, PresetCreative, PresetPrecise:
	default:
		return fmt.Errorf("AI_PRESET must be one of balanced, creative, precise (got %q)", c.Concierge.Preset)
	}
	if c.Concierge.Temperature < 0 || c.Concierge.Temperature > 2 {
		return fmt.Errorf("AI_TEMPERATURE must be between 0 and 2")
	}
	if c.Sync.Interval < 0 {
		return fmt.Errorf("SYNC_INTERVAL_MINUTES must not be negative")
	}
	if c.Chat.RatePerMinute <= 0 {
		return fmt.Errorf("CHAT_RATE_PER_MINUTE must be positive")
	}
	return nil
}

// NotionConfigured reports whether both Notion credentials are present.
func (c *Config) NotionConfigured() bool {
	return c.Notion.APIKey != "" && c.Notion.DatabaseID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
