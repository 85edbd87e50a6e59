package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the Filestash API.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Queue    QueueConfig
	Metrics  MetricsConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// RedisConfig contains connection details for the session cache and job queue.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Storage backends.
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// StorageConfig describes where file content is persisted.
type StorageConfig struct {
	Backend string
	// Root is the directory blobs are written under when Backend is "disk".
	Root  string
	MinIO MinIOConfig
}

// MinIOConfig carries connection and bucket information for the
// S3-compatible content backend.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
}

// AuthConfig groups authentication-related settings.
type AuthConfig struct {
	SessionTTL time.Duration
	BcryptCost int
}

// QueueConfig names the thumbnail job list.
type QueueConfig struct {
	ThumbnailList string
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("FILESTASH_API_HOST", "0.0.0.0"),
			Port:         getInt("FILESTASH_API_PORT", 5000),
			ReadTimeout:  getDuration("FILESTASH_API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("FILESTASH_API_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDuration("FILESTASH_API_IDLE_TIMEOUT", 60*time.Second),
		},
		Postgres: PostgresConfig{
			Host:     getString("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			User:     getString("POSTGRES_USER", "filestash_app"),
			Password: getString("POSTGRES_PASSWORD", "change-me"),
			Database: getString("POSTGRES_DB", "filestash"),
			SSLMode:  strings.ToLower(getString("POSTGRES_SSL_MODE", "disable")),
		},
		Redis: RedisConfig{
			Addr:     getString("REDIS_ADDR", "localhost:6379"),
			Password: getString("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getString("STORAGE_BACKEND", BackendDisk)),
			Root:    getString("FOLDER_PATH", "/tmp/files_manager"),
			MinIO: MinIOConfig{
				Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
				AccessKeyID:     getString("MINIO_ROOT_USER", "filestash"),
				SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
				Bucket:          getString("MINIO_BUCKET", "filestash"),
				UseSSL:          getBool("MINIO_USE_SSL", false),
				Region:          getString("MINIO_REGION", ""),
			},
		},
		Auth: loadAuthConfig(),
		Queue: QueueConfig{
			ThumbnailList: getString("FILESTASH_THUMBNAIL_QUEUE", "thumbnail_jobs"),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("FILESTASH_METRICS_PATH", "/metrics"),
		},
	}

	if cfg.Storage.Backend != BackendDisk && cfg.Storage.Backend != BackendS3 {
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func loadAuthConfig() AuthConfig {
	cost := getInt("FILESTASH_AUTH_BCRYPT_COST", 12)
	if cost < 4 || cost > 31 {
		cost = 12
	}

	return AuthConfig{
		SessionTTL: getDuration("FILESTASH_AUTH_SESSION_TTL", 24*time.Hour),
		BcryptCost: cost,
	}
}
