// Package config loads spark's configuration from a YAML file, an optional
// .env file and SPARK_* environment variables.
//
// Precedence, lowest to highest: built-in defaults, YAML file, environment,
// command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/watt-toolkit/spark/pkg/spark/static"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Static  StaticConfig  `yaml:"static"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Proxy   ProxyConfig   `yaml:"proxy"`
}

// ServerConfig controls the listener and the worker pool.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	MaxWorkers      int           `yaml:"max_workers"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes"`

	// AcceptRate is connections admitted per second; 0 disables limiting
	AcceptRate  float64 `yaml:"accept_rate"`
	AcceptBurst int     `yaml:"accept_burst"`

	Socket SocketConfig `yaml:"socket"`
}

// SocketConfig holds TCP tuning flags.
type SocketConfig struct {
	NoDelay     bool `yaml:"no_delay"`
	ReusePort   bool `yaml:"reuse_port"`
	DeferAccept bool `yaml:"defer_accept"`
}

// StaticConfig lists the directories served from Root.
type StaticConfig struct {
	Root        string            `yaml:"root"`
	Directories []DirectoryConfig `yaml:"directories"`
}

// DirectoryConfig is one served prefix.
type DirectoryConfig struct {
	Prefix              string `yaml:"prefix"`
	AllowSubdirectories bool   `yaml:"allow_subdirectories"`
}

// LoggingConfig selects level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json|console
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// ProxyConfig restricts the outbound fetch helper. An empty AllowedHosts
// disables it.
type ProxyConfig struct {
	AllowedHosts []string      `yaml:"allowed_hosts"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			MaxWorkers:      256,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxHeaderBytes:  8192,
			Socket: SocketConfig{
				NoDelay: true,
			},
		},
		Static: StaticConfig{
			Root: ".",
			Directories: []DirectoryConfig{
				{Prefix: "/", AllowSubdirectories: false},
				{Prefix: "/src/", AllowSubdirectories: true},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Proxy: ProxyConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	s := c.Server
	if s.Addr == "" {
		return errors.New("server.addr must be set")
	}
	if s.MaxWorkers <= 0 {
		return fmt.Errorf("server.max_workers must be positive, got %d", s.MaxWorkers)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.ShutdownTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	if s.MaxHeaderBytes < 0 {
		return fmt.Errorf("server.max_header_bytes must not be negative, got %d", s.MaxHeaderBytes)
	}
	if s.AcceptRate < 0 || s.AcceptBurst < 0 {
		return errors.New("server.accept_rate and server.accept_burst must not be negative")
	}
	if s.AcceptRate > 0 && s.AcceptBurst == 0 {
		return errors.New("server.accept_burst must be positive when accept_rate is set")
	}
	for i, d := range c.Static.Directories {
		if !strings.HasPrefix(d.Prefix, "/") {
			return fmt.Errorf("static.directories[%d]: prefix %q must start with /", i, d.Prefix)
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	if c.Proxy.Timeout < 0 {
		return errors.New("proxy.timeout must not be negative")
	}
	return nil
}

// Directories converts the configured directories for static.NewResolver.
func (c *Config) Directories() []static.Directory {
	dirs := make([]static.Directory, 0, len(c.Static.Directories))
	for _, d := range c.Static.Directories {
		dirs = append(dirs, static.Directory{
			Prefix:              d.Prefix,
			AllowSubdirectories: d.AllowSubdirectories,
		})
	}
	return dirs
}
