package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config holds all configurable server parameters.
type Config struct {
	WSPort   int    `json:"ws_port" validate:"gte=0,lt=65536"`
	LogLevel string `json:"log_level" validate:"oneof=debug info warn error"`

	// ThemesStoreKey is the slot key the theme collection is saved under.
	ThemesStoreKey string `json:"themes_store_key" validate:"required"`
	// AutosaveDelayMS is the debounce window for theme saves.
	AutosaveDelayMS int `json:"autosave_delay_ms" validate:"gte=0"`
	// ThemesDir holds the JSON slot files when no database is configured.
	ThemesDir string `json:"themes_dir"`
	// DatabaseURL selects the Postgres slot when set.
	DatabaseURL string `json:"database_url"`

	MaxThemeNameLength int `json:"max_theme_name_length" validate:"gt=0"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		WSPort:             8080,
		LogLevel:           "info",
		ThemesStoreKey:     "memorize.themes",
		AutosaveDelayMS:    5000,
		ThemesDir:          "data",
		MaxThemeNameLength: 32,
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	// Try to load from config.json
	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			slog.Warn("failed to parse config.json", "tag", "config", "err", err)
		}
	}

	// Environment variable overrides
	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.ThemesStoreKey, "THEMES_STORE_KEY")
	overrideInt(&cfg.AutosaveDelayMS, "AUTOSAVE_DELAY_MS")
	overrideString(&cfg.ThemesDir, "THEMES_DIR")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideInt(&cfg.MaxThemeNameLength, "MAX_THEME_NAME_LENGTH")
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	return cfg
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// AutosaveDelay is AutosaveDelayMS as a duration.
func (c *Config) AutosaveDelay() time.Duration {
	return time.Duration(c.AutosaveDelayMS) * time.Millisecond
}

// SlogLevel maps LogLevel to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid integer in environment", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
