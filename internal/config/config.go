// Package config loads server configuration from defaults, an optional
// config file, a .env file, and ROUTE_-prefixed environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/docker/go-units"
)

// EnvPrefix is prepended to every environment override, e.g. ROUTE_SERVER_PORT.
const EnvPrefix = "ROUTE"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	OpenAPI   OpenAPIConfig   `mapstructure:"openapi" validate:"required"`
	Docs      DocsConfig      `mapstructure:"docs" validate:"required"`
	Upload    UploadConfig    `mapstructure:"upload" validate:"required"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
	BodyLimit       string        `mapstructure:"body_limit" validate:"required"`
}

// Addr returns host:port for the listener.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BodyLimitBytes parses BodyLimit ("1MB", "512kB") using decimal units.
func (c ServerConfig) BodyLimitBytes() (int64, error) {
	return parseSize("server.body_limit", c.BodyLimit)
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string        `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string        `mapstructure:"format" validate:"required,oneof=text json"`
	Output string        `mapstructure:"output" validate:"required"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig controls rotation when Output is a file path. MaxSize is in
// megabytes and MaxAge in days.
type LogFileConfig struct {
	MaxSize    int  `mapstructure:"max_size" validate:"gte=0"`
	MaxAge     int  `mapstructure:"max_age" validate:"gte=0"`
	MaxBackups int  `mapstructure:"max_backups" validate:"gte=0"`
	Compress   bool `mapstructure:"compress"`
}

// OpenAPIConfig fills the info block of the generated document.
type OpenAPIConfig struct {
	Title       string `mapstructure:"title" validate:"required"`
	Version     string `mapstructure:"version" validate:"required"`
	Description string `mapstructure:"description"`
}

// DocsConfig sets where the document and its UI are served.
type DocsConfig struct {
	UIPath       string `mapstructure:"ui_path" validate:"required,startswith=/"`
	ElementsPath string `mapstructure:"elements_path" validate:"omitempty,startswith=/"`
	JSONPath     string `mapstructure:"json_path" validate:"required,startswith=/"`
	YAMLPath     string `mapstructure:"yaml_path" validate:"omitempty,startswith=/"`
}

// UploadConfig controls where uploaded files land.
type UploadConfig struct {
	Dir     string `mapstructure:"dir" validate:"required"`
	MaxSize string `mapstructure:"max_size" validate:"required"`
}

// MaxSizeBytes parses MaxSize ("10MB").
func (c UploadConfig) MaxSizeBytes() (int64, error) {
	return parseSize("upload.max_size", c.MaxSize)
}

// CORSConfig lists the origins allowed to call the API.
type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" validate:"gte=0"`
}

// RateLimitConfig sets a per-client token bucket. A zero rate disables it.
type RateLimitConfig struct {
	Rate  float64 `mapstructure:"rate" validate:"gte=0"`
	Burst int     `mapstructure:"burst" validate:"gte=0"`
}

func parseSize(name, s string) (int64, error) {
	n, err := units.FromHumanSize(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return n, nil
}
