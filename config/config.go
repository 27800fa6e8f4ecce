// Package config loads the tool's configuration: built-in defaults,
// optionally overridden by a docsift.yaml file, then by environment
// variables (a .env file is honoured when present).
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked for in the working directory.
const DefaultFile = "docsift.yaml"

// Config holds the runtime settings of the extraction tool.
type Config struct {
	// OutputRoot is the directory file sinks write under. Each document
	// gets its own <name>_files subdirectory.
	OutputRoot string `yaml:"output_root"`
	// Database is the SQLite database path used by the SQL sink.
	Database string `yaml:"database"`
}

func defaults() Config {
	return Config{
		OutputRoot: "output",
		Database:   "docsift.db",
	}
}

// Load builds the configuration. A missing config file is not an error;
// a malformed one is.
func Load(path string) (Config, error) {
	// Ignore a missing .env; godotenv errors only matter when the file
	// exists but cannot be parsed.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("loading .env: %w", err)
		}
	}

	cfg := defaults()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OUTPUT_ROOT"); v != "" {
		c.OutputRoot = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database = v
	}
}

func (c *Config) applyDefaults() {
	d := defaults()
	if c.OutputRoot == "" {
		c.OutputRoot = d.OutputRoot
	}
	if c.Database == "" {
		c.Database = d.Database
	}
}
