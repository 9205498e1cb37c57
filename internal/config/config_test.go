package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Store.Backend != "memory" || cfg.Store.SQLiteDSN != ":memory:" {
		t.Errorf("unexpected store defaults: %+v", cfg.Store)
	}
	if cfg.Alerts.NotificationRadiusKm != 4 {
		t.Errorf("expected 4 km default radius, got %g", cfg.Alerts.NotificationRadiusKm)
	}
	if cfg.Geolocation.Enabled {
		t.Error("geolocation should be disabled by default")
	}
	if cfg.Geolocation.Timeout != 5*time.Second {
		t.Errorf("expected 5s geolocation timeout, got %v", cfg.Geolocation.Timeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_DSN", "file:alerts.db")
	t.Setenv("NOTIFICATION_RADIUS_KM", "2.5")
	t.Setenv("GEOLOCATION_TIMEOUT", "10s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.SQLiteDSN != "file:alerts.db" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Alerts.NotificationRadiusKm != 2.5 {
		t.Errorf("expected 2.5 km radius, got %g", cfg.Alerts.NotificationRadiusKm)
	}
	if cfg.Geolocation.Timeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.Geolocation.Timeout)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "99999")

	if _, err := Load(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")

	if _, err := Load(); err == nil {
		t.Error("expected error for unsupported backend")
	}
}

func TestLoad_InvalidRadius(t *testing.T) {
	t.Setenv("NOTIFICATION_RADIUS_KM", "-1")

	if _, err := Load(); err == nil {
		t.Error("expected error for negative radius")
	}
}

func TestLoad_GeolocationEnabledNeedsURL(t *testing.T) {
	t.Setenv("GEOLOCATION_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Error("expected error when geolocation is enabled without a provider URL")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	if _, err := Load(); err == nil {
		t.Error("expected error for unknown log level")
	}
}
