package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer         string        // Required: issuer claim for session tokens
	SessionKeyFile string        // Optional: path to PEM Ed25519 signing key (default: ephemeral key per start)
	SessionTTL     time.Duration // Optional: session token lifetime (default: 24h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./openup.db)

	MediaEndpoint      string        // Optional: S3-compatible endpoint; set for MinIO
	MediaRegion        string        // Optional: bucket region (default: us-east-1)
	MediaBucket        string        // Required for uploads: target bucket
	MediaAccessKey     string        // Required for uploads
	MediaSecretKey     string        // Required for uploads
	MediaPublicBaseURL string        // Required for uploads: prefix of returned URLs
	MediaKeyPrefix     string        // Optional: object key namespace (default: bucketlist)
	MediaUploadTimeout time.Duration // Optional: per-upload deadline (default: 30s)
	MediaPathStyle     bool          // Optional: path-style addressing, needed by MinIO

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("OPENUP_ISSUER", "openup"),
		SessionKeyFile: os.Getenv("OPENUP_SESSION_KEY_FILE"), // Optional
		SessionTTL:     getEnvDurationOrDefault("OPENUP_SESSION_TTL", 24*time.Hour),

		DatabaseFile: getEnvOrDefault("OPENUP_DATABASE_FILE", "openup.db"),

		MediaEndpoint:      os.Getenv("OPENUP_MEDIA_ENDPOINT"), // Optional: MinIO or custom
		MediaRegion:        getEnvOrDefault("OPENUP_MEDIA_REGION", "us-east-1"),
		MediaBucket:        os.Getenv("OPENUP_MEDIA_BUCKET"),
		MediaAccessKey:     os.Getenv("OPENUP_MEDIA_ACCESS_KEY"),
		MediaSecretKey:     os.Getenv("OPENUP_MEDIA_SECRET_KEY"),
		MediaPublicBaseURL: os.Getenv("OPENUP_MEDIA_PUBLIC_BASE_URL"),
		MediaKeyPrefix:     getEnvOrDefault("OPENUP_MEDIA_KEY_PREFIX", "bucketlist"),
		MediaUploadTimeout: getEnvDurationOrDefault("OPENUP_MEDIA_UPLOAD_TIMEOUT", 30*time.Second),
		MediaPathStyle:     getEnvBoolOrDefault("OPENUP_MEDIA_PATH_STYLE", false),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

// MediaConfigured reports whether enough of the object-store settings are
// present to build an uploader. Without them the service still runs; items
// just never carry images.
func (c Config) MediaConfigured() bool {
	return c.MediaBucket != "" && c.MediaAccessKey != "" &&
		c.MediaSecretKey != "" && c.MediaPublicBaseURL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
