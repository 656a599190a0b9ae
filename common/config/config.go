package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Queue     QueueConfig
	Telemetry TelemetryConfig
	Catalog   CatalogConfig
	Bidding   BiddingConfig
	Session   SessionConfig
	Features  FeatureFlags
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string

	// Browser origins allowed to open websockets; empty allows any
	AllowedOrigins []string
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds cache settings
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// QueueConfig holds message queue settings
type QueueConfig struct {
	Type    string // "memory" or "nats"
	NatsURL string
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof   bool
	PprofPort     int
	EnableMetrics bool
	MetricsPort   int
}

// CatalogConfig holds catalog view and blob settings
type CatalogConfig struct {
	// Locale used for string collation when sorting views (BCP 47 tag)
	CollationLocale string
	BlobCacheTTL    time.Duration
	MaxUploadBytes  int64
	PublicBaseURL   string
}

// BiddingConfig holds bid submission limits
type BiddingConfig struct {
	UserBidsPerWindow int64
	WindowSeconds     int
	GlobalAPILimit    int64
	SnapshotTTL       time.Duration
}

// SessionConfig holds session lifetime settings
type SessionConfig struct {
	TTL time.Duration
	// Email addresses promoted to admin on first sign-in
	BootstrapAdmins []string
}

// FeatureFlags toggles optional behaviour
type FeatureFlags struct {
	EnableRateLimit       bool
	EnableExpressionQuery bool
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),

			AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", nil),
		},
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "catalog"),
			User:        getEnv("POSTGRES_USER", "catalog"),
			Password:    getEnv("POSTGRES_PASSWORD", "catalog"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 20),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 2),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Enabled:    getEnvBool("CACHE_ENABLED", true),
			DefaultTTL: getEnvDuration("CACHE_DEFAULT_TTL", 30*time.Second),
		},
		Queue: QueueConfig{
			Type:    getEnv("QUEUE_TYPE", "memory"),
			NatsURL: getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Telemetry: TelemetryConfig{
			EnablePprof:   getEnvBool("ENABLE_PPROF", false),
			PprofPort:     getEnvInt("PPROF_PORT", 6060),
			EnableMetrics: getEnvBool("ENABLE_METRICS", true),
			MetricsPort:   getEnvInt("METRICS_PORT", 9090),
		},
		Catalog: CatalogConfig{
			CollationLocale: getEnv("CATALOG_COLLATION_LOCALE", "en"),
			BlobCacheTTL:    getEnvDuration("BLOB_CACHE_TTL", 10*time.Minute),
			MaxUploadBytes:  int64(getEnvInt("BLOB_MAX_UPLOAD_BYTES", 10<<20)),
			PublicBaseURL:   getEnv("PUBLIC_BASE_URL", ""),
		},
		Bidding: BiddingConfig{
			UserBidsPerWindow: int64(getEnvInt("BID_RATE_LIMIT", 10)),
			WindowSeconds:     getEnvInt("BID_RATE_WINDOW_SECONDS", 60),
			GlobalAPILimit:    int64(getEnvInt("API_RATE_LIMIT", 1000)),
			SnapshotTTL:       getEnvDuration("BID_SNAPSHOT_TTL", 30*24*time.Hour),
		},
		Session: SessionConfig{
			TTL:             getEnvDuration("SESSION_TTL", 24*time.Hour),
			BootstrapAdmins: getEnvSlice("BOOTSTRAP_ADMINS", nil),
		},
		Features: FeatureFlags{
			EnableRateLimit:       getEnvBool("ENABLE_RATE_LIMIT", true),
			EnableExpressionQuery: getEnvBool("ENABLE_EXPRESSION_QUERY", true),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("max_conns must be >= min_conns")
	}

	switch c.Queue.Type {
	case "memory", "nats":
	default:
		return fmt.Errorf("unknown queue type: %s", c.Queue.Type)
	}

	if c.Bidding.WindowSeconds < 1 {
		return fmt.Errorf("bid rate window must be at least 1 second")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

// RedisAddr returns host:port for the Redis client
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions

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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
