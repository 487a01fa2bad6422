// Package config loads shuffle-albums configuration from YAML, the environment and defaults.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	MPD    MPDConfig    `yaml:"mpd"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// MPDConfig is where and how to reach MPD.
type MPDConfig struct {
	Host     string `yaml:"host" default:"127.0.0.1" validate:"required,hostname_rfc1123|ip"`
	Port     int    `yaml:"port" default:"6600" validate:"gte=1,lt=65536"`
	Password string `yaml:"password"`
}

// LogConfig represents logger configuration.
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Output string `yaml:"output" default:"stderr" validate:"oneof=stdout stderr file"`
	File   string `yaml:"file" validate:"required_if=Output file"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Listen     string `yaml:"listen" default:":3001" validate:"hostname_port"`
	DebounceMs int    `yaml:"debounce_ms" default:"200" validate:"gte=0,lte=5000"`
}

// Load builds a configuration from defaults, overlaid with the optional
// YAML file at path, then the MPD_HOST, MPD_PORT and MPD_PASSWORD
// environment variables. Explicit zero values survive. The result is not
// validated so callers can apply flag overrides first.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// overrideFromEnv applies the environment variables MPD clients conventionally honour.
func (c *Config) overrideFromEnv() error {
	if v := os.Getenv("MPD_HOST"); v != "" {
		c.SetHost(v)
	}
	if v := os.Getenv("MPD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid MPD_PORT %q", v)
		}
		c.MPD.Port = port
	}
	if v := os.Getenv("MPD_PASSWORD"); v != "" {
		c.MPD.Password = v
	}
	return nil
}

// SetHost sets the MPD host. A value of the form "password@host" also sets the password.
func (c *Config) SetHost(v string) {
	host, password := SplitHost(v)
	c.MPD.Host = host
	if password != "" {
		c.MPD.Password = password
	}
}

// SplitHost splits "password@host" into host and password.
func SplitHost(v string) (host, password string) {
	if i := strings.LastIndex(v, "@"); i >= 0 {
		return v[i+1:], v[:i]
	}
	return v, ""
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "config validation failed")
	}
	return nil
}
