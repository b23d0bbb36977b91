package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults for the notification window and cache retention
const (
	DefaultNotificationStartHour = 9
	DefaultNotificationEndHour   = 22
	DefaultCachePruneDays        = 30
)

// Config holds everything the application reads from the environment
type Config struct {
	Port string
	Mode string // "debug" or "release"

	// Database
	DBType       string // "sqlite" or "postgres"
	DatabasePath string // sqlite file, relative to the data directory
	DatabaseURL  string // postgres connection string

	// Feature flags
	WeaknessReviewEnabled bool
	ImmersionModeEnabled  bool
	LLMEnabled            bool

	// OpenAI
	OpenAIKey   string
	OpenAIModel string

	// Telegram reminders
	TelegramToken  string
	TelegramChatID int64

	// Notification window, hours of day
	NotificationStartHour int
	NotificationEndHour   int

	// File caches
	AudioCacheDir  string
	LLMCacheDir    string
	CachePruneDays int
}

// Load reads .env if present and builds the configuration from the
// environment. Missing values fall back to defaults suitable for local
// development.
func Load() *Config {
	// Best effort: a missing .env file is not an error
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "8000"),
		Mode:                  getEnv("APP_MODE", "debug"),
		DBType:                getEnv("DB_TYPE", "sqlite"),
		DatabasePath:          getEnv("DATABASE_PATH", "kapp.db"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		WeaknessReviewEnabled: getBoolEnv("WEAKNESS_REVIEW_ENABLED", true),
		ImmersionModeEnabled:  getBoolEnv("IMMERSION_MODE_ENABLED", false),
		LLMEnabled:            getBoolEnv("LLM_ENABLED", false),
		OpenAIKey:             os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		TelegramToken:         os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:        getInt64Env("TELEGRAM_CHAT_ID", 0),
		NotificationStartHour: getHourEnv("NOTIFICATION_START_HOUR", DefaultNotificationStartHour),
		NotificationEndHour:   getHourEnv("NOTIFICATION_END_HOUR", DefaultNotificationEndHour),
		AudioCacheDir:         getEnv("AUDIO_CACHE_DIR", "data/audio_cache"),
		LLMCacheDir:           getEnv("LLM_CACHE_DIR", "data/llm_cache"),
		CachePruneDays:        getIntEnv("CACHE_PRUNE_DAYS", DefaultCachePruneDays),
	}

	if cfg.DBType != "sqlite" && cfg.DBType != "postgres" {
		cfg.DBType = "sqlite"
	}
	return cfg
}

// Validate reports configuration combinations that cannot work
func (c *Config) Validate() error {
	if c.DBType == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("DB_TYPE is postgres but DATABASE_URL is not set")
	}
	if c.LLMEnabled && c.OpenAIKey == "" {
		return fmt.Errorf("LLM_ENABLED is true but OPENAI_API_KEY is not set")
	}
	return nil
}

// TelegramConfigured reports whether reminder delivery is possible
func (c *Config) TelegramConfigured() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getHourEnv(key string, fallback int) int {
	h := getIntEnv(key, fallback)
	if h < 0 || h > 23 {
		return fallback
	}
	return h
}
