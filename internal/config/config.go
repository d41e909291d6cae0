package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	Env                 string
	HTTPAddr            string
	StoreBackend        string
	DatabaseURL         string
	TelegramToken       string
	JWTSecret           string
	RequireInitData     bool
	RequireRegistration bool
	EnforceToken        bool
	AuthRateRPS         float64
	AuthRateBurst       int
	Logging             LoggingConfig
}

type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                 getenv("APP_ENV", "dev"),
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		StoreBackend:        getenv("STORE_BACKEND", BackendMemory),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		TelegramToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		RequireInitData:     getenvBool("AUTH_REQUIRE_INIT_DATA", false),
		RequireRegistration: getenvBool("AUTH_REQUIRE_REGISTRATION", false),
		EnforceToken:        getenvBool("AUTH_ENFORCE_TOKEN", false),
		AuthRateRPS:         getenvFloat("AUTH_RATE_RPS", 1),
		AuthRateBurst:       getenvInt("AUTH_RATE_BURST", 5),
		Logging: LoggingConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "text"),
			File:   os.Getenv("LOG_FILE"),
		},
	}

	switch cfg.StoreBackend {
	case BackendMemory, BackendPostgres:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q", BackendMemory, BackendPostgres)
	}
	if cfg.StoreBackend == BackendPostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.RequireInitData && cfg.TelegramToken == "" {
		return nil, fmt.Errorf("AUTH_REQUIRE_INIT_DATA needs TELEGRAM_BOT_TOKEN")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return parsed
}
