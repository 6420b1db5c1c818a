// Package config loads the fieldset application configuration (TOML).
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath   = "fieldset.toml"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultStorePath    = "settings.json"
	DefaultStoreFormat  = "json"
	DefaultRenderOutput = "-"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Schema SchemaConfig `toml:"schema"`
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// SchemaConfig points at a definition file or directory. Empty selects the
// embedded weighbridge schema.
type SchemaConfig struct {
	Path string `toml:"path"`
}

// StoreConfig holds where settings values are persisted.
type StoreConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

// RenderConfig holds the HTML snapshot destination; "-" is stdout.
type RenderConfig struct {
	Output string `toml:"output"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Store: StoreConfig{
			Path:   DefaultStorePath,
			Format: DefaultStoreFormat,
		},
		Render: RenderConfig{
			Output: DefaultRenderOutput,
		},
	}
}

// Load reads the TOML file at path (or DefaultConfigPath if empty). A missing
// file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	cfg.Store.Format = strings.ToLower(strings.TrimSpace(cfg.Store.Format))
	return cfg, nil
}
