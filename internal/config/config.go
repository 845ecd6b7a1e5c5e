package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Filter    FilterConfig    `yaml:"filter" mapstructure:"filter"`
	Geocode   GeocodeConfig   `yaml:"geocode" mapstructure:"geocode"`
	Device    DeviceConfig    `yaml:"device" mapstructure:"device"`
	LinkCheck LinkCheckConfig `yaml:"linkcheck" mapstructure:"linkcheck"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the static data documents.
type DataConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	DefaultRegion string `yaml:"default_region" mapstructure:"default_region"`
}

// FilterConfig holds browsing defaults.
type FilterConfig struct {
	RadiusKm        float64 `yaml:"radius_km" mapstructure:"radius_km"`
	SuggestionLimit int     `yaml:"suggestion_limit" mapstructure:"suggestion_limit"`
}

// GeocodeConfig configures the address lookup service.
type GeocodeConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// Timeout returns the request timeout as a duration.
func (g GeocodeConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// Device location providers.
const (
	DeviceProviderIP     = "ip"
	DeviceProviderStatic = "static"
)

// DeviceConfig configures how "use my location" finds the machine's position.
type DeviceConfig struct {
	Enabled     bool     `yaml:"enabled" mapstructure:"enabled"`
	Provider    string   `yaml:"provider" mapstructure:"provider"`
	BaseURL     string   `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAgeSecs  int      `yaml:"max_age_secs" mapstructure:"max_age_secs"`
	Latitude    *float64 `yaml:"latitude" mapstructure:"latitude"`
	Longitude   *float64 `yaml:"longitude" mapstructure:"longitude"`
}

// Timeout returns the position request timeout as a duration.
func (d DeviceConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSecs) * time.Second
}

// MaxAge returns how long a position fix may be reused.
func (d DeviceConfig) MaxAge() time.Duration {
	return time.Duration(d.MaxAgeSecs) * time.Second
}

// LinkCheckConfig configures website reachability checks.
type LinkCheckConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// Timeout returns the per-request timeout as a duration.
func (l LinkCheckConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSecs) * time.Second
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VENUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.default_region", "act-canberra")
	v.SetDefault("filter.radius_km", 10.0)
	v.SetDefault("filter.suggestion_limit", 5)
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("geocode.user_agent", "venue-cli/1.0")
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("geocode.rate_limit", 1.0)
	v.SetDefault("device.enabled", true)
	v.SetDefault("device.provider", DeviceProviderIP)
	v.SetDefault("device.base_url", "http://ip-api.com/json")
	v.SetDefault("device.timeout_secs", 10)
	v.SetDefault("device.max_age_secs", 300)
	v.SetDefault("linkcheck.concurrency", 4)
	v.SetDefault("linkcheck.timeout_secs", 10)
	v.SetDefault("linkcheck.max_attempts", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// AutomaticEnv only sees keys viper already knows about.
	_ = v.BindEnv("device.latitude")
	_ = v.BindEnv("device.longitude")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	var problems []string

	if c.Data.Dir == "" {
		problems = append(problems, "data.dir is required")
	}
	if c.Filter.RadiusKm <= 0 {
		problems = append(problems, "filter.radius_km must be positive")
	}
	if c.Geocode.BaseURL == "" {
		problems = append(problems, "geocode.base_url is required")
	}
	if c.Geocode.RateLimit < 0 {
		problems = append(problems, "geocode.rate_limit must not be negative")
	}
	switch c.Device.Provider {
	case DeviceProviderIP:
	case DeviceProviderStatic:
		if c.Device.Enabled && (c.Device.Latitude == nil || c.Device.Longitude == nil) {
			problems = append(problems, "device.latitude and device.longitude are required for the static provider")
		}
	default:
		problems = append(problems, "device.provider must be ip or static")
	}
	if c.LinkCheck.Concurrency < 1 || c.LinkCheck.Concurrency > 32 {
		problems = append(problems, "linkcheck.concurrency must be between 1 and 32")
	}
	if c.LinkCheck.MaxAttempts < 1 {
		problems = append(problems, "linkcheck.max_attempts must be at least 1")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
