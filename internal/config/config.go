// Package config loads showcase settings from an optional config file and
// SHOWCASE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"showcase/internal/render"
)

// Config holds application configuration.
type Config struct {
	Page      PageConfig      `mapstructure:"page"`
	Server    ServerConfig    `mapstructure:"server"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Sample    SampleConfig    `mapstructure:"sample"`
}

// PageConfig is the page chrome.
type PageConfig struct {
	Title  string `mapstructure:"title"`
	Icon   string `mapstructure:"icon"`
	Layout string `mapstructure:"layout"`
	Footer string `mapstructure:"footer"`
}

// ServerConfig holds HTTP host settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// UploadConfig limits and previews uploads.
type UploadConfig struct {
	MaxBytes    int64 `mapstructure:"max_bytes"`
	PreviewRows int   `mapstructure:"preview_rows"`
}

// LogConfig selects log level, format and destination.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// TelemetryConfig selects the span exporter.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Insecure     bool   `mapstructure:"insecure"`
	ServiceName  string `mapstructure:"service_name"`
	Stdout       bool   `mapstructure:"stdout"`
}

// SampleConfig controls sample data generation.
type SampleConfig struct {
	Seed uint64 `mapstructure:"seed"`
}

// Options converts the page settings into render options.
func (c Config) Options() render.Options {
	return render.Options{
		Title:       c.Page.Title,
		Icon:        c.Page.Icon,
		Layout:      c.Page.Layout,
		Footer:      c.Page.Footer,
		PreviewRows: c.Upload.PreviewRows,
	}
}

// Validate rejects settings the hosts cannot run with.
func (c Config) Validate() error {
	var errs []error
	switch c.Page.Layout {
	case "wide", "centered":
	default:
		errs = append(errs, fmt.Errorf("page.layout: must be wide or centered, got %q", c.Page.Layout))
	}
	if c.Upload.MaxBytes < 0 {
		errs = append(errs, fmt.Errorf("upload.max_bytes: must not be negative"))
	}
	if c.Upload.PreviewRows <= 0 {
		errs = append(errs, fmt.Errorf("upload.preview_rows: must be positive"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format))
	}
	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr: must be set"))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	opts := render.DefaultOptions()
	v.SetDefault("page.title", opts.Title)
	v.SetDefault("page.icon", opts.Icon)
	v.SetDefault("page.layout", opts.Layout)
	v.SetDefault("page.footer", opts.Footer)
	v.SetDefault("server.addr", ":8501")
	v.SetDefault("upload.max_bytes", int64(200<<20))
	v.SetDefault("upload.preview_rows", opts.PreviewRows)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.service_name", "showcase")
	v.SetDefault("telemetry.stdout", false)
	v.SetDefault("sample.seed", uint64(0))
}

// Load reads configuration. path may be empty; then SHOWCASE_CONFIG is
// consulted, then $XDG_CONFIG_HOME/showcase/config.{toml,yaml,json}.
// Env var overrides use prefix SHOWCASE_ with dots as underscores.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv("SHOWCASE_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "showcase"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SHOWCASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
