package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the optional ddx configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
}

// DefaultsConfig holds defaults for operands and flags. A nil field means
// the key was not present in the file.
type DefaultsConfig struct {
	BlockSize *string `toml:"bs"`
	Status    *string `toml:"status"`
	BWLimit   *string `toml:"bwlimit"`
	Checksum  *bool   `toml:"checksum"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "ddx", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}

	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	return cfg, nil
}

// Operands returns tokens with the configured defaults prepended. The block
// size default applies only when none of bs, ibs or obs is given, and the
// status default only when status is not given.
func (d DefaultsConfig) Operands(tokens []string) []string {
	given := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if key, _, ok := strings.Cut(tok, "="); ok {
			given[key] = true
		}
	}

	var defaults []string
	if d.BlockSize != nil && !given["bs"] && !given["ibs"] && !given["obs"] {
		defaults = append(defaults, "bs="+*d.BlockSize)
	}
	if d.Status != nil && !given["status"] {
		defaults = append(defaults, "status="+*d.Status)
	}
	if len(defaults) == 0 {
		return tokens
	}
	return append(defaults, tokens...)
}
