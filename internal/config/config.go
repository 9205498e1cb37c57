package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Alerts      AlertsConfig
	Geolocation GeolocationConfig
	API         APIConfig
	Logging     LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StoreConfig struct {
	Backend   string // "memory" or "sqlite"
	SQLiteDSN string
}

type AlertsConfig struct {
	NotificationRadiusKm float64
}

type GeolocationConfig struct {
	Enabled      bool
	ProviderURL  string
	Timeout      time.Duration
	HighAccuracy bool
}

type APIConfig struct {
	RateLimitRPS int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Store: StoreConfig{
			Backend:   getEnv("STORE_BACKEND", "memory"),
			SQLiteDSN: getEnv("SQLITE_DSN", ":memory:"),
		},
		Alerts: AlertsConfig{
			NotificationRadiusKm: getEnvFloat("NOTIFICATION_RADIUS_KM", 4),
		},
		Geolocation: GeolocationConfig{
			Enabled:      getEnvBool("GEOLOCATION_ENABLED", false),
			ProviderURL:  getEnv("GEOLOCATION_URL", ""),
			Timeout:      getEnvDuration("GEOLOCATION_TIMEOUT", 5*time.Second),
			HighAccuracy: getEnvBool("GEOLOCATION_HIGH_ACCURACY", true),
		},
		API: APIConfig{
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 5),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Store.Backend != "memory" && c.Store.Backend != "sqlite" {
		return fmt.Errorf("invalid store backend: %s", c.Store.Backend)
	}

	if c.Alerts.NotificationRadiusKm <= 0 {
		return fmt.Errorf("notification radius must be positive, got %g", c.Alerts.NotificationRadiusKm)
	}

	if c.Geolocation.Enabled && c.Geolocation.ProviderURL == "" {
		return fmt.Errorf("GEOLOCATION_ENABLED is set but GEOLOCATION_URL is empty")
	}
	if c.Geolocation.Timeout <= 0 {
		return fmt.Errorf("geolocation timeout must be positive")
	}

	if c.API.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 req/s")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
