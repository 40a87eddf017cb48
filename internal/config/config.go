// Package config loads the optional .local-task.yml file from the working
// directory. A missing file yields defaults; a malformed one is an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	FileName    = ".local-task.yml"
	DefaultPath = ".local-task/tasks.db"
)

type Config struct {
	// Database is the path of the SQLite file, relative to the working
	// directory unless absolute.
	Database string `yaml:"database"`
}

// Load reads the config file at dir/FileName.
func Load(dir string) (Config, error) {
	cfg := Config{Database: DefaultPath}
	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Database == "" {
		cfg.Database = DefaultPath
	}
	return cfg, nil
}
