// ABOUTME: YAML configuration file loading and merging with command-line flags.
// ABOUTME: Flags win over the file; the file wins over built-in defaults.

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the shape of galley.yaml.
type fileConfig struct {
	Engine         string `yaml:"engine"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	DataDir        string `yaml:"data_dir"`
	WorkDir        string `yaml:"workdir"`
}

// loadConfigFile reads a YAML config file. A missing file is only an error
// when the path was given explicitly.
func loadConfigFile(path string, explicit bool) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &fileConfig{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// mergeConfig folds file values into cfg for any setting the flags left at
// its default.
func mergeConfig(cfg *config, fc *fileConfig) {
	if cfg.engine == defaultEngine && fc.Engine != "" {
		cfg.engine = fc.Engine
	}
	if cfg.timeout == defaultTimeout && fc.TimeoutSeconds > 0 {
		cfg.timeout = time.Duration(fc.TimeoutSeconds) * time.Second
	}
	if cfg.dataDir == "" && fc.DataDir != "" {
		cfg.dataDir = fc.DataDir
	}
	if cfg.workDir == "" && fc.WorkDir != "" {
		cfg.workDir = fc.WorkDir
	}
}
