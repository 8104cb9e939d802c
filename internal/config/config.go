package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const examDateLayout = "2006-01-02"

// Config holds runtime configuration values for the tracker API.
type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	// Hosted backend (auth + row collections).
	BackendURL        string
	BackendAPIKey     string
	BackendServiceKey string

	// Secret the auth provider signs access tokens with.
	AuthJWTSecret string

	// Optional self-hosted row storage. When set, the three collections
	// live in this database instead of the hosted backend.
	DatabaseURL string

	RedisURL          string
	DashboardCacheTTL time.Duration

	// Program-wide exam date applied when a student has none recorded.
	DefaultExamDate time.Time

	// Optional topic catalog override file.
	CatalogPath string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// UseRemoteStore reports whether the hosted backend's row collections serve
// as storage. Authentication always runs against the hosted backend; a
// configured database URL switches row storage to the local database only.
func (c Config) UseRemoteStore() bool {
	return c.DatabaseURL == ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FINBUDD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Finbudd CFA Tracker API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("exam.default_date", "2025-08-20")

	ttlString := v.GetString("dashboard.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	examDate, err := time.Parse(examDateLayout, v.GetString("exam.default_date"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid default exam date: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		BackendURL:        v.GetString("backend.url"),
		BackendAPIKey:     v.GetString("backend.api_key"),
		BackendServiceKey: v.GetString("backend.service_key"),
		AuthJWTSecret:     v.GetString("auth.jwt_secret"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		DashboardCacheTTL: ttl,
		DefaultExamDate:   examDate,
		CatalogPath:       v.GetString("catalog.path"),
	}

	if cfg.AuthJWTSecret == "" {
		return Config{}, fmt.Errorf("auth jwt secret must be provided")
	}

	if cfg.BackendURL == "" || cfg.BackendAPIKey == "" {
		return Config{}, fmt.Errorf("backend url and api key must be provided")
	}

	return cfg, nil
}
