package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage providers
const (
	ProviderS3    = "s3"
	ProviderMinio = "minio"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `json:"server"`
	Redis    RedisConfig    `json:"redis"`
	Storage  StorageConfig  `json:"storage"`
	Upload   UploadConfig   `json:"upload"`
	Session  SessionConfig  `json:"session"`
	Log      LogConfig      `json:"log"`
	Security SecurityConfig `json:"security"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int    `json:"port"`
	Environment  string `json:"environment"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	IdleTimeout  int    `json:"idle_timeout"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled      bool          `json:"enabled"`
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	Password     string        `json:"password"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"pool_size"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// StorageConfig holds the object storage destination. Bucket and folder are
// fixed for the lifetime of the process.
type StorageConfig struct {
	Provider       string        `json:"provider"`
	Bucket         string        `json:"bucket"`
	Folder         string        `json:"folder"`
	Region         string        `json:"region"`
	Endpoint       string        `json:"endpoint"`
	AccessKey      string        `json:"-"`
	SecretKey      string        `json:"-"`
	UseSSL         bool          `json:"use_ssl"`
	ForcePathStyle bool          `json:"force_path_style"`
	MaxRetries     int           `json:"max_retries"`
	Timeout        time.Duration `json:"timeout"`
}

// UploadConfig holds limits applied to incoming files
type UploadConfig struct {
	MaxSizeMB         int      `json:"max_size_mb"`
	AllowedExtensions []string `json:"allowed_extensions"`
	AllowEmpty        bool     `json:"allow_empty"`
	Timezone          string   `json:"timezone"`
}

// SessionConfig holds upload session configuration
type SessionConfig struct {
	TTL             time.Duration `json:"ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `json:"rate_limit"`
	CORS      CORSConfig      `json:"cors"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `json:"requests_per_minute"`
	BurstSize         int           `json:"burst_size"`
	CleanupInterval   time.Duration `json:"cleanup_interval"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvAsInt("PORT", 8080),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 30),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 120),
			IdleTimeout:  getEnvAsInt("IDLE_TIMEOUT", 60),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  time.Duration(getEnvAsInt("REDIS_DIAL_TIMEOUT", 5)) * time.Second,
			ReadTimeout:  time.Duration(getEnvAsInt("REDIS_READ_TIMEOUT", 3)) * time.Second,
			WriteTimeout: time.Duration(getEnvAsInt("REDIS_WRITE_TIMEOUT", 3)) * time.Second,
		},
		Storage: StorageConfig{
			Provider:       strings.ToLower(getEnv("STORAGE_PROVIDER", ProviderS3)),
			Bucket:         getEnv("STORAGE_BUCKET", ""),
			Folder:         getEnv("STORAGE_FOLDER", "EXTRACT/"),
			Region:         getEnv("STORAGE_REGION", "us-east-1"),
			Endpoint:       getEnv("STORAGE_ENDPOINT", ""),
			AccessKey:      getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:      getEnv("STORAGE_SECRET_KEY", ""),
			UseSSL:         getEnvAsBool("STORAGE_USE_SSL", true),
			ForcePathStyle: getEnvAsBool("STORAGE_FORCE_PATH_STYLE", false),
			MaxRetries:     getEnvAsInt("STORAGE_MAX_RETRIES", 3),
			Timeout:        getEnvAsDuration("STORAGE_TIMEOUT", 60*time.Second),
		},
		Upload: UploadConfig{
			MaxSizeMB:         getEnvAsInt("UPLOAD_MAX_SIZE_MB", 200),
			AllowedExtensions: getEnvAsSlice("UPLOAD_ALLOWED_EXTENSIONS", []string{".txt"}),
			AllowEmpty:        getEnvAsBool("UPLOAD_ALLOW_EMPTY", true),
			Timezone:          getEnv("UPLOAD_TIMEZONE", "America/Sao_Paulo"),
		},
		Session: SessionConfig{
			TTL:             getEnvAsDuration("SESSION_TTL", 2*time.Hour),
			CleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 60),
				BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
				CleanupInterval:   time.Duration(getEnvAsInt("RATE_LIMIT_CLEANUP", 60)) * time.Second,
			},
			CORS: CORSConfig{
				AllowedOrigins:   getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
				AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: false,
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields
func (c *Config) Validate() error {
	if c.Storage.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}

	switch c.Storage.Provider {
	case ProviderS3:
	case ProviderMinio:
		if c.Storage.Endpoint == "" {
			return fmt.Errorf("STORAGE_ENDPOINT is required for provider %q", ProviderMinio)
		}
	default:
		return fmt.Errorf("unsupported STORAGE_PROVIDER %q (use %q or %q)", c.Storage.Provider, ProviderS3, ProviderMinio)
	}

	if c.Upload.MaxSizeMB <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE_MB must be positive")
	}

	return nil
}

// MaxUploadBytes returns the upload limit in bytes
func (u UploadConfig) MaxUploadBytes() int64 {
	return int64(u.MaxSizeMB) << 20
}

// Location returns the time zone used to name uploaded objects
func (u UploadConfig) Location() *time.Location {
	if u.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// IsProduction reports whether the server runs in production mode
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
