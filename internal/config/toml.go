// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Explore ExploreConfig `toml:"explore"`
}

// ExploreConfig maps explorer settings. Every field is optional;
// command-line flags take precedence over file values.
type ExploreConfig struct {
	Data     *string  `toml:"data"`
	DB       *string  `toml:"db"`
	From     *int     `toml:"from"`
	To       *int     `toml:"to"`
	Types    []string `toml:"types"`
	MinLives *int     `toml:"min-lives"`
	View     *string  `toml:"view"`
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
