package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Places    PlacesConfig
	Location  LocationConfig
	Storage   StorageConfig
	Clipboard ClipboardConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// PlacesConfig holds the remote point-of-interest source configuration
type PlacesConfig struct {
	Endpoint   string
	Timeout    time.Duration
	MaxResults int
}

// LocationConfig holds location-service configuration
type LocationConfig struct {
	Provider string // "ip", "fixed" or "none"
	Endpoint string
	Timeout  time.Duration
	FixedLat float64
	FixedLng float64
}

// StorageConfig holds key/value storage configuration
type StorageConfig struct {
	Backend   string // "memory" or "redis"
	RedisAddr string
	RedisDB   int
	Prefix    string
}

// ClipboardConfig holds clipboard configuration
type ClipboardConfig struct {
	Enabled bool
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with defaults.
// A .env file in the working directory is read first when present;
// variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "127.0.0.1"),
			Env:  getEnv("ENV", "development"),
		},
		Places: PlacesConfig{
			Endpoint:   getEnv("PLACES_ENDPOINT", "https://overpass.kumi.systems/api/interpreter"),
			Timeout:    getEnvDuration("PLACES_TIMEOUT", 30*time.Second),
			MaxResults: getEnvInt("PLACES_MAX_RESULTS", 120),
		},
		Location: LocationConfig{
			Provider: getEnv("LOCATION_PROVIDER", "ip"),
			Endpoint: getEnv("LOCATION_ENDPOINT", "http://ip-api.com/json/"),
			Timeout:  getEnvDuration("LOCATION_TIMEOUT", 8*time.Second),
			FixedLat: getEnvFloat("LOCATION_LAT", 0),
			FixedLng: getEnvFloat("LOCATION_LNG", 0),
		},
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", "memory"),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
			RedisDB:   getEnvInt("REDIS_DB", 0),
			Prefix:    getEnv("STORAGE_PREFIX", "placeswipe:"),
		},
		Clipboard: ClipboardConfig{
			Enabled: getEnvBool("CLIPBOARD_ENABLED", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("8s") or whole seconds ("8")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
