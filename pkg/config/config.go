// Package config loads gitcat's TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up in the user config directory.
const FileName = "config.toml"

const (
	DefaultStoreDir     = ".git"
	DefaultPreviewBytes = 30
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Config holds settings read from a config file. Command-line flags take
// precedence over these values.
type Config struct {
	StoreDir     string       `toml:"store_dir"`
	VerifyHashes bool         `toml:"verify_hashes"`
	PreviewBytes int          `toml:"preview_bytes"`
	Log          LogConfig    `toml:"log"`
	Verify       VerifyConfig `toml:"verify"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// VerifyConfig tunes the verify command.
type VerifyConfig struct {
	Jobs int `toml:"jobs"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		StoreDir:     DefaultStoreDir,
		PreviewBytes: DefaultPreviewBytes,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/gitcat/config.toml or its platform
// equivalent. It returns "" if no user config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gitcat", FileName)
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error. Unknown keys are rejected so typos do not pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and fills empty fields with defaults.
func (c *Config) Validate() error {
	c.StoreDir = strings.TrimSpace(c.StoreDir)
	if c.StoreDir == "" {
		c.StoreDir = DefaultStoreDir
	}
	if strings.ContainsRune(c.StoreDir, filepath.Separator) {
		return fmt.Errorf("store_dir %q must be a single directory name", c.StoreDir)
	}
	if c.PreviewBytes < 0 {
		return fmt.Errorf("preview_bytes must not be negative, got %d", c.PreviewBytes)
	}
	if c.Verify.Jobs < 0 {
		return fmt.Errorf("verify.jobs must not be negative, got %d", c.Verify.Jobs)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	return nil
}
