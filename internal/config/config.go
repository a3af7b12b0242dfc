package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/newthinker/fxsignals/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// APIKey gates /api/ routes. The dashboard page and its form routes are not gated.
	APIKey string `mapstructure:"api_key"`
	// RateLimit is the sustained requests per second allowed per client on /api/ and the form routes. Zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// UpstreamConfig points at the signals API.
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 = no timeout
}

// ArchiveConfig controls where exported workbooks are saved.
type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file, filling unset keys from Defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())
	v.SetConfigFile(path)

	// Support environment variable overrides, e.g. FXSIGNALS_SERVER_PORT
	v.SetEnvPrefix("fxsignals")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.api_key", d.Server.APIKey)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)
	v.SetDefault("upstream.base_url", d.Upstream.BaseURL)
	v.SetDefault("upstream.timeout", d.Upstream.Timeout)
	v.SetDefault("archive.enabled", d.Archive.Enabled)
	v.SetDefault("archive.type", d.Archive.Type)
	v.SetDefault("archive.path", d.Archive.Path)
	v.SetDefault("archive.s3.bucket", "")
	v.SetDefault("archive.s3.endpoint", "")
	v.SetDefault("archive.s3.region", "")
	v.SetDefault("archive.s3.access_key", "")
	v.SetDefault("archive.s3.secret_key", "")
	v.SetDefault("archive.s3.prefix", "")
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("log.level", d.Log.Level)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			RateLimit: 0,
			RateBurst: 5,
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://forex-signals.foliumaitech.com",
		},
		Archive: ArchiveConfig{
			Enabled: true,
			Type:    "localfs",
			Path:    "exports",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimit < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("rate_limit cannot be negative, got %f", c.Server.RateLimit))
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("rate_burst must be at least 1 when rate_limit is set, got %d", c.Server.RateBurst))
	}

	// Upstream validation
	if c.Upstream.BaseURL == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("upstream base_url required"))
	}
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("upstream base_url must be an http(s) URL, got %q", c.Upstream.BaseURL))
	}
	if c.Upstream.Timeout < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("upstream timeout cannot be negative, got %s", c.Upstream.Timeout))
	}

	// Archive validation - only checked when exports are saved
	if c.Archive.Enabled {
		switch c.Archive.Type {
		case "localfs":
			if c.Archive.Path == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive path required when type is localfs"))
			}
		case "s3":
			if c.Archive.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive s3 bucket required when type is s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("archive type must be localfs or s3, got %q", c.Archive.Type))
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("metrics path must start with /, got %q", c.Metrics.Path))
	}

	return nil
}
