package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the npio configuration file (~/.config/npio/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	// ArraysDir is the default directory served by `npio serve`.
	ArraysDir string `yaml:"arrays_dir"`

	// HeaderLimit caps the header length accepted from untrusted files.
	HeaderLimit *int `yaml:"header_limit"`

	// Server
	ServerAddress string `yaml:"server_address"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "npio", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or cannot be parsed.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyServeConfig fills serve command defaults from the config file when
// the corresponding CLI flag was not explicitly set.
func applyServeConfig(c *cli.Command, cfg Config, dir, addr *string) {
	if cfg.ArraysDir != "" && !c.IsSet("dir") {
		*dir = cfg.ArraysDir
	}
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

func headerLimitFrom(cfg Config, flagSet bool, flagValue int) int {
	if flagSet || cfg.HeaderLimit == nil {
		return flagValue
	}
	return *cfg.HeaderLimit
}
