// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomoney "github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// EnvPrefix namespaces environment overrides, e.g. PNL_DASHBOARD_ROWS.
const EnvPrefix = "PNL_DASHBOARD"

const (
	DefaultTickIntervalMS  = 1000
	DefaultFlashDurationMS = 600
	DefaultHistoryDays     = 60
	DefaultRows            = 10
	DefaultLocale          = "en-US"
	DefaultCurrency        = "USD"
	DefaultLogFile         = "logs/dashboard.log"
	DefaultLogBufferSize   = 500
	DefaultExportDir       = "exports"
	DefaultExportFormat    = "csv"

	MaxRows = 50
)

// Config holds dashboard settings.
type Config struct {
	TickInterval    time.Duration `mapstructure:"-"`
	TickIntervalMS  int           `mapstructure:"tick_interval_ms"`
	FlashDuration   time.Duration `mapstructure:"-"`
	FlashDurationMS int           `mapstructure:"flash_duration_ms"`
	HistoryDays     int           `mapstructure:"history_days"`
	Rows            int           `mapstructure:"rows"`
	Seed            uint64        `mapstructure:"seed"`
	Locale          string        `mapstructure:"locale"`
	Currency        string        `mapstructure:"currency"`
	DebugLogging    bool          `mapstructure:"debug_logging"`
	LogFile         string        `mapstructure:"log_file"`
	LogBufferSize   int           `mapstructure:"log_buffer_size"`
	ExportDir       string        `mapstructure:"export_dir"`
	ExportFormat    string        `mapstructure:"export_format"`
	JournalFile     string        `mapstructure:"journal_file"`
}

var defaults = map[string]interface{}{
	"tick_interval_ms":  DefaultTickIntervalMS,
	"flash_duration_ms": DefaultFlashDurationMS,
	"history_days":      DefaultHistoryDays,
	"rows":              DefaultRows,
	"seed":              0,
	"locale":            DefaultLocale,
	"currency":          DefaultCurrency,
	"debug_logging":     false,
	"log_file":          DefaultLogFile,
	"log_buffer_size":   DefaultLogBufferSize,
	"export_dir":        DefaultExportDir,
	"export_format":     DefaultExportFormat,
	"journal_file":      "",
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg, err := load(newViper(), false)
	if err != nil {
		// defaults always validate
		panic(err)
	}
	return cfg
}

// LoadConfig reads an optional config file, then .env and PNL_DASHBOARD_*
// environment overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := newViper()
	if path == "" {
		return load(v, false)
	}
	v.SetConfigFile(path)
	return load(v, true)
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func load(v *viper.Viper, readFile bool) (*Config, error) {
	if readFile {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	cfg.TickInterval = time.Duration(cfg.TickIntervalMS) * time.Millisecond
	cfg.FlashDuration = time.Duration(cfg.FlashDurationMS) * time.Millisecond
	cfg.ExportFormat = strings.ToLower(cfg.ExportFormat)
	cfg.Currency = strings.ToUpper(cfg.Currency)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and formats.
func Validate(cfg *Config) error {
	if cfg.TickIntervalMS <= 0 {
		return errors.New("invalid tick_interval_ms")
	}
	if cfg.FlashDurationMS <= 0 {
		return errors.New("invalid flash_duration_ms")
	}
	if cfg.HistoryDays <= 0 {
		return errors.New("invalid history_days")
	}
	if cfg.Rows < 1 || cfg.Rows > MaxRows {
		return fmt.Errorf("rows must be between 1 and %d", MaxRows)
	}
	if cfg.LogBufferSize <= 0 {
		return errors.New("invalid log_buffer_size")
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", cfg.Locale, err)
	}
	if gomoney.GetCurrency(strings.ToUpper(cfg.Currency)) == nil {
		return fmt.Errorf("unknown currency %q", cfg.Currency)
	}
	switch cfg.ExportFormat {
	case "csv", "json":
	default:
		return fmt.Errorf("unsupported export_format %q", cfg.ExportFormat)
	}
	return nil
}
