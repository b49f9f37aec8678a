package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageSQL    = "sql"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Storage
	StorageBackend   string
	DatabaseURL      string
	DatabaseMaxConns int
	AutoMigrate      bool
	RedisURL         string
	MongoURL         string
	MongoDatabase    string

	// Push plumbing
	RabbitMQURL string

	// Proximity
	ProximityPollInterval time.Duration
	LocationChannel       string
	LocationWSURL         string

	// Drafting
	GeminiAPIKey       string
	GeminiModel        string
	GeminiEndpoint     string
	DraftTimeout       time.Duration
	DraftRatePerMinute float64

	// Backup
	BackupWebDAVURL         string
	BackupUsername          string
	BackupPassword          string
	BackupOAuthClientID     string
	BackupOAuthClientSecret string
	BackupOAuthTokenURL     string
	BackupOAuthRefreshToken string
	BackupEncryptionKey     string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("BUCKETLIST_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StorageBackend:   strings.ToLower(getEnv("STORAGE_BACKEND", StorageSQL)),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 4),
		AutoMigrate:      getBoolEnv("BUCKETLIST_AUTO_MIGRATE", true),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		MongoURL:         getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "bucketlist"),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		ProximityPollInterval: getDurationEnv("PROXIMITY_POLL_INTERVAL", 10*time.Second),
		LocationChannel:       getEnv("LOCATION_CHANNEL", "bucketlist:location"),
		LocationWSURL:         getEnv("LOCATION_WS_URL", ""),

		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiEndpoint:     getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
		DraftTimeout:       getDurationEnv("DRAFT_TIMEOUT", 15*time.Second),
		DraftRatePerMinute: getFloatEnv("DRAFT_RATE_PER_MINUTE", 10),

		BackupWebDAVURL:         getEnv("BACKUP_WEBDAV_URL", ""),
		BackupUsername:          getEnv("BACKUP_USERNAME", ""),
		BackupPassword:          getEnv("BACKUP_PASSWORD", ""),
		BackupOAuthClientID:     getEnv("BACKUP_OAUTH_CLIENT_ID", ""),
		BackupOAuthClientSecret: getEnv("BACKUP_OAUTH_CLIENT_SECRET", ""),
		BackupOAuthTokenURL:     getEnv("BACKUP_OAUTH_TOKEN_URL", ""),
		BackupOAuthRefreshToken: getEnv("BACKUP_OAUTH_REFRESH_TOKEN", ""),
		BackupEncryptionKey:     getEnv("BACKUP_ENCRYPTION_KEY", ""),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DraftingEnabled reports whether an AI provider key is configured.
func (c *Config) DraftingEnabled() bool {
	return c.GeminiAPIKey != ""
}

// BackupEnabled reports whether a backup endpoint is configured.
func (c *Config) BackupEnabled() bool {
	return c.BackupWebDAVURL != ""
}

// OAuthEnabled reports whether backup credentials can be refreshed via OAuth2.
func (c *Config) OAuthEnabled() bool {
	return c.BackupOAuthClientID != "" && c.BackupOAuthTokenURL != "" && c.BackupOAuthRefreshToken != ""
}

// PushEnabled reports whether push notifications go to a broker.
func (c *Config) PushEnabled() bool {
	return c.RabbitMQURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
