// Package config loads and validates jobshare configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/JakeFAU/jobshare/internal/share"
)

// Status store backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

const defaultShareImage = "https://storage.googleapis.com/gpt-engineer-file-uploads/" +
	"qLZbvqI1JJV7s7qLCqiN2u0iNM93/uploads/1769111120896-Gemini_Generated_Image_yeubloyeubloyeub.png"

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	StatusStore StatusStoreConfig `mapstructure:"status_store"`
	JobSource   JobSourceConfig   `mapstructure:"job_source"`
	Share       ShareConfig       `mapstructure:"share"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                   int      `mapstructure:"port"`
	AllowedOrigins         []string `mapstructure:"allowed_origins"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds"`
}

// LoggingConfig toggles zap development features and the minimum level.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// StatusStoreConfig configures the document store holding status checks.
type StatusStoreConfig struct {
	Backend  string `mapstructure:"backend"`
	DSN      string `mapstructure:"dsn"`
	Database string `mapstructure:"database"`
	Table    string `mapstructure:"table"`
	MaxConns int32  `mapstructure:"max_conns"`
	Migrate  bool   `mapstructure:"migrate"`
}

// JobSourceConfig configures where job postings are read from. DSN selects a
// direct Postgres connection; otherwise URL and Key select the REST API. With
// neither set, every share request serves the fallback document.
type JobSourceConfig struct {
	URL            string  `mapstructure:"url"`
	Key            string  `mapstructure:"key"`
	DSN            string  `mapstructure:"dsn"`
	Table          string  `mapstructure:"table"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// ShareConfig holds the branding embedded in every share document.
type ShareConfig struct {
	AppBaseURL string `mapstructure:"app_base_url"`
	ImageURL   string `mapstructure:"image_url"`
	SiteName   string `mapstructure:"site_name"`
	OGLocale   string `mapstructure:"og_locale"`
	Locale     string `mapstructure:"locale"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load builds a Config from .env, the environment and an optional YAML file.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("JOBSHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := v.BindEnv("server.port", "JOBSHARE_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind port env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Share.AppBaseURL = strings.TrimRight(cfg.Share.AppBaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("status_store.backend", BackendPostgres)
	v.SetDefault("status_store.dsn", "")
	v.SetDefault("status_store.database", "")
	v.SetDefault("status_store.table", "status_checks")
	v.SetDefault("status_store.max_conns", 0)
	v.SetDefault("status_store.migrate", false)
	v.SetDefault("job_source.url", "")
	v.SetDefault("job_source.key", "")
	v.SetDefault("job_source.dsn", "")
	v.SetDefault("job_source.table", "public_jobs")
	v.SetDefault("job_source.timeout_seconds", 5)
	v.SetDefault("job_source.rate_limit_rps", 0)
	v.SetDefault("job_source.rate_limit_burst", 10)
	v.SetDefault("share.app_base_url", "http://localhost:3000")
	v.SetDefault("share.image_url", defaultShareImage)
	v.SetDefault("share.site_name", "H2 Linker")
	v.SetDefault("share.og_locale", "en_US")
	v.SetDefault("share.locale", share.DefaultLocale)
	v.SetDefault("metrics.enabled", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	switch c.StatusStore.Backend {
	case BackendPostgres:
		if c.StatusStore.DSN == "" {
			return fmt.Errorf("status_store.dsn is required")
		}
		if c.StatusStore.Database == "" {
			return fmt.Errorf("status_store.database is required")
		}
		if c.StatusStore.Migrate && c.StatusStore.Table != "" && c.StatusStore.Table != "status_checks" {
			return fmt.Errorf("status_store.migrate only manages the status_checks table")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("status_store.backend must be %q or %q", BackendPostgres, BackendMemory)
	}
	if c.JobSource.TimeoutSeconds <= 0 {
		return fmt.Errorf("job_source.timeout_seconds must be > 0")
	}
	if (c.JobSource.URL == "") != (c.JobSource.Key == "") && c.JobSource.DSN == "" {
		return fmt.Errorf("job_source.url and job_source.key must be set together")
	}
	if _, err := share.LookupLocale(c.Share.Locale); err != nil {
		return fmt.Errorf("share.locale: %w", err)
	}
	u, err := url.Parse(c.Share.AppBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("share.app_base_url must be an absolute URL")
	}
	if c.Share.SiteName == "" || c.Share.ImageURL == "" {
		return fmt.Errorf("share.site_name and share.image_url are required")
	}
	return nil
}

// JobSourceConfigured reports whether any job source is configured.
func (c Config) JobSourceConfigured() bool {
	return c.JobSource.DSN != "" || (c.JobSource.URL != "" && c.JobSource.Key != "")
}

// LookupTimeout converts the job source timeout into a duration.
func (c Config) LookupTimeout() time.Duration {
	return time.Duration(c.JobSource.TimeoutSeconds) * time.Second
}

// ShutdownTimeout converts the shutdown grace period into a duration.
func (c Config) ShutdownTimeout() time.Duration {
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}
