package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"CITIES_API_URL", "HTTP_TIMEOUT", "GEOCODE_API_URL", "GEOCODE_RATE_PER_SEC", "DB_PATH", "SERVER_ADDR", "LOG_FILE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CitiesAPIURL != "http://localhost:9000" {
		t.Errorf("CitiesAPIURL = %s", cfg.CitiesAPIURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.GeocodeRatePerSec != 1 {
		t.Errorf("GeocodeRatePerSec = %v", cfg.GeocodeRatePerSec)
	}
	if cfg.DBPath != filepath.Join("data", "travel-terminal.db") {
		t.Errorf("DBPath = %s", cfg.DBPath)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoad_FromEnvFile(t *testing.T) {
	for _, key := range []string{"CITIES_API_URL", "HTTP_TIMEOUT", "LOG_LEVEL", "SERVER_ADDR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "CITIES_API_URL=http://cities.test:8080\nHTTP_TIMEOUT=5s\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing env file: %v", err)
	}
	t.Setenv("SERVER_ADDR", ":7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CitiesAPIURL != "http://cities.test:8080" {
		t.Errorf("CitiesAPIURL = %s", cfg.CitiesAPIURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.ServerAddr != ":7000" {
		t.Errorf("ServerAddr = %s, environment should win", cfg.ServerAddr)
	}
}
