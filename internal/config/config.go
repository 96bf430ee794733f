// Package config loads prism-mcp settings from defaults, an optional config
// file and the environment, in that order of increasing priority.
package config

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/prism-tools-mcp/prism"
)

// Environment variables read by FromEnv.
const (
	EnvHostMarker   = "PRISM_HOST_MARKER"
	EnvDisplayScale = "PRISM_DISPLAY_SCALE"
	EnvLogLevel     = "PRISM_LOG_LEVEL"
	EnvLogJSON      = "PRISM_LOG_JSON"
)

// Config holds the runtime settings shared by the CLI and the MCP server.
type Config struct {
	// HostMarker is the substring that marks a Prism host.
	HostMarker string `toml:"host_marker" yaml:"host_marker"`

	// DisplayScale is the pixel density used when a request does not give one.
	DisplayScale float64 `toml:"display_scale" yaml:"display_scale"`

	LogLevel string `toml:"log_level" yaml:"log_level"`
	LogJSON  bool   `toml:"log_json" yaml:"log_json"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		HostMarker:   prism.DefaultHostMarker,
		DisplayScale: 1,
		LogLevel:     "info",
	}
}

// Load returns the defaults overlaid with the file at path (when path is
// not empty) and then with the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.FromEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadFile overlays the settings found in a .toml, .yaml or .yml file.
// Keys missing from the file keep their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	return nil
}

// FromEnv overlays values found through lookup, normally os.LookupEnv.
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvHostMarker); ok && v != "" {
		c.HostMarker = v
	}
	if v, ok := lookup(EnvDisplayScale); ok && v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDisplayScale, err)
		}
		c.DisplayScale = scale
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogJSON); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogJSON, err)
		}
		c.LogJSON = b
	}
	return nil
}

// Validate reports settings that would make every build fail or pass through.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HostMarker) == "" {
		return fmt.Errorf("host marker must not be empty")
	}
	if c.DisplayScale <= 0 || math.IsNaN(c.DisplayScale) || math.IsInf(c.DisplayScale, 0) {
		return fmt.Errorf("display scale must be a positive number, got %v", c.DisplayScale)
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// NewLogger builds the root logger described by c. Callers pass stderr;
// stdout is reserved for MCP traffic.
func (c Config) NewLogger(name string, out io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:            name,
		Level:           hclog.LevelFromString(c.LogLevel),
		Output:          out,
		JSONFormat:      c.LogJSON,
		IncludeLocation: true,
	})
}
