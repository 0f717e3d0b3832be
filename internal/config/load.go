package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration. Precedence, highest first: ROUTE_* environment
// variables (including those loaded from .env), the config file, defaults.
// An empty path looks for ./config.{yaml,json,toml} and tolerates its
// absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv loads variables from the given files without overriding ones
// already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// SetDefaults registers every key with its default so that environment
// overrides apply even without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.body_limit", "1MB")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_age", 7)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("openapi.title", "API 文档")
	v.SetDefault("openapi.version", "1.0.0")
	v.SetDefault("openapi.description", "基于 chi 的通用 API")

	v.SetDefault("docs.ui_path", "/api-docs")
	v.SetDefault("docs.elements_path", "/docs")
	v.SetDefault("docs.json_path", "/swagger.json")
	v.SetDefault("docs.yaml_path", "/swagger.yaml")

	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_size", "10MB")

	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)

	v.SetDefault("ratelimit.rate", 0)
	v.SetDefault("ratelimit.burst", 0)
}

// Validate checks struct constraints and that size strings parse.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Server.BodyLimitBytes(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Upload.MaxSizeBytes(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
