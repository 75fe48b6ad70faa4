package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	StoreBaseURL  string
	StoreAPIKey   string
	ArchivePath   string
	ServerPort    string
	LogLevel      string
	PeriodMinutes int
	SyncDebounce  time.Duration
	SyncInterval  time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		StoreBaseURL:  getEnv("STORE_BASE_URL", ""),
		StoreAPIKey:   getEnv("STORE_API_KEY", ""),
		ArchivePath:   getEnv("ARCHIVE_DB_PATH", "futkings.db"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PeriodMinutes: getEnvInt("PERIOD_MINUTES", 20),
		SyncDebounce:  1500 * time.Millisecond,
		SyncInterval:  10 * time.Second,
	}

	if cfg.StoreBaseURL == "" {
		return nil, fmt.Errorf("STORE_BASE_URL is required")
	}
	if cfg.PeriodMinutes <= 0 {
		return nil, fmt.Errorf("PERIOD_MINUTES must be positive, got %d", cfg.PeriodMinutes)
	}

	logger.Info().
		Str("store_base_url", cfg.StoreBaseURL).
		Str("archive_path", cfg.ArchivePath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("period_minutes", cfg.PeriodMinutes).
		Dur("sync_debounce", cfg.SyncDebounce).
		Dur("sync_interval", cfg.SyncInterval).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
