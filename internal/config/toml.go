// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Paint PaintConfig `toml:"paint"`
}

// PaintConfig maps paint-related settings. Nil fields are unset.
type PaintConfig struct {
	MinCommits *int    `toml:"min-commits"`
	MaxCommits *int    `toml:"max-commits"`
	Charset    *string `toml:"charset"`
	Window     *string `toml:"window"`
	Invert     *bool   `toml:"invert"`
	DryRun     *bool   `toml:"dry-run"`
	WeeksBack  *int    `toml:"weeks-back"`
	Font       *string `toml:"font"`
	Repo       *string `toml:"repo"`
	EnvFile    *string `toml:"env-file"`
	History    *bool   `toml:"history"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
