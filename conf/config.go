// Package conf loads the optional runtime config file described in
// spec.md §6: a TOML document under the user's ~/.config directory with
// a single [runtime] table.
package conf

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/kpcyrd/authoscope/scopeerr"
)

const defaultBasename = "authoscope.toml"

// RuntimeConfig mirrors the [runtime] table.
type RuntimeConfig struct {
	UserAgent    string `toml:"user_agent"`
	RlimitNofile uint64 `toml:"rlimit_nofile"`
}

// Config is the parsed config file, or its zero value when no file was
// found and none was required.
type Config struct {
	Runtime RuntimeConfig `toml:"runtime"`
}

// Load discovers and parses the config file. If explicitPath is empty,
// it looks under $HOME/.config/authoscope.toml and silently returns the
// zero value when that file doesn't exist. An explicit path that can't
// be read or parsed is always fatal.
func Load(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, scopeerr.Annotatef(err, scopeerr.Config, "home directory not found")
		}
		path = filepath.Join(home, ".config", defaultBasename)

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return &Config{}, nil
		}
	}

	return FromFile(path)
}

// FromFile parses a TOML config file at path.
func FromFile(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.Config, "reading config %s", path)
	}
	return FromBytes(buf)
}

// FromBytes parses a TOML config document already in memory.
func FromBytes(buf []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(buf, &cfg); err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.Config, "parsing config")
	}
	return &cfg, nil
}

// UserAgent returns the configured default user agent, or "" when unset.
func (c *Config) UserAgent() string {
	if c == nil {
		return ""
	}
	return c.Runtime.UserAgent
}
