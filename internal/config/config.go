// Package config provides configuration management for the router.
package config

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vyrodovalexey/avrouter/internal/util"
)

// Config is the top-level configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Routes  []Route       `yaml:"routes"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address         string   `yaml:"address"`
	ReadTimeout     Duration `yaml:"readTimeout"`
	WriteTimeout    Duration `yaml:"writeTimeout"`
	IdleTimeout     Duration `yaml:"idleTimeout"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig holds metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Route declares one route: a method, a path pattern as understood by the
// router (literals, "*", "**", and partial wildcards), and the static
// response to serve on a match.
type Route struct {
	Name     string   `yaml:"name"`
	Method   string   `yaml:"method"`
	Path     string   `yaml:"path"`
	Response Response `yaml:"response"`
}

// Response is the static response a declarative route serves.
type Response struct {
	Status  int               `yaml:"status"`
	Headers map[string]string `yaml:"headers"`
	Body    string            `yaml:"body"`
}

// knownMethods is the set of methods accepted in route declarations.
var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodPatch:   true,
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     Duration(defaultReadTimeout),
			WriteTimeout:    Duration(defaultWriteTimeout),
			IdleTimeout:     Duration(defaultIdleTimeout),
			ShutdownTimeout: Duration(defaultShutdownTimeout),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration and returns a configuration error
// describing the first problem found.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return util.NewConfigError("server.address", "must not be empty")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return util.NewConfigError("logging.level",
			fmt.Sprintf("unknown level %q", c.Logging.Level))
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return util.NewConfigError("metrics.path", "must start with /")
	}

	for i, route := range c.Routes {
		if err := route.validate(); err != nil {
			return util.NewConfigErrorWithCause(
				fmt.Sprintf("routes[%d]", i), "invalid route", err)
		}
	}

	return nil
}

func (r *Route) validate() error {
	if r.Name == "" {
		return util.NewConfigError("name", "must not be empty")
	}
	if !knownMethods[strings.ToUpper(r.Method)] {
		return util.NewConfigError("method", fmt.Sprintf("unknown method %q", r.Method))
	}
	if !strings.HasPrefix(r.Path, "/") {
		return util.NewConfigError("path", fmt.Sprintf("path %q must start with /", r.Path))
	}
	if r.Response.Status != 0 && (r.Response.Status < 100 || r.Response.Status > 599) {
		return util.NewConfigError("response.status",
			fmt.Sprintf("status %d out of range", r.Response.Status))
	}
	return nil
}
