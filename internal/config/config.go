package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ngmaloney/travel-terminal/internal/database"
	"github.com/ngmaloney/travel-terminal/internal/geocoding"
)

type Config struct {
	// Remote city collection
	CitiesAPIURL string
	HTTPTimeout  time.Duration

	// Reverse geocoding
	GeocodeAPIURL     string
	GeocodeRatePerSec float64

	// City server
	DBPath     string
	ServerAddr string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads .env (if present) and the environment.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	cfg := &Config{
		CitiesAPIURL: getEnv("CITIES_API_URL", "http://localhost:9000"),
		HTTPTimeout:  getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		GeocodeAPIURL:     getEnv("GEOCODE_API_URL", geocoding.DefaultBaseURL),
		GeocodeRatePerSec: getEnvAsFloat("GEOCODE_RATE_PER_SEC", 1),

		DBPath:     getEnv("DB_PATH", database.DBPath()),
		ServerAddr: getEnv("SERVER_ADDR", ":9000"),

		LogFile:  getEnv("LOG_FILE", "travel-terminal.log"),
		LogLevel: getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.ToUpper(value))); err == nil {
			return level
		}
	}
	return defaultValue
}
