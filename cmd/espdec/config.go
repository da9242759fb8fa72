package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the espdec configuration file (~/.config/espdec/config.yaml).
type Config struct {
	OutputDir string   `yaml:"output_dir"`
	Types     []string `yaml:"types"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`

	// Batch
	Workers *int64 `yaml:"workers"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "espdec", "config.yaml")
}

// applyCommonConfig applies config file defaults when the corresponding
// CLI flag was not explicitly set.
func applyCommonConfig(c *cli.Command, cfg Config) {
	if len(cfg.Types) > 0 && !c.IsSet("types") && !c.IsSet("t") {
		typesCSV = strings.Join(cfg.Types, ",")
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyDumpConfig(c *cli.Command, cfg Config, outDir *string) {
	if cfg.OutputDir != "" && !c.IsSet("out") {
		*outDir = cfg.OutputDir
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

func applyBatchConfig(c *cli.Command, cfg Config, workers *int64) {
	if cfg.Workers != nil && !c.IsSet("workers") {
		*workers = *cfg.Workers
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
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
