// Package config provides configuration loading and management for the
// da3d command. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Denoise holds the algorithm parameters
	Denoise struct {
		// NumCores specifies how many CPU cores to use for parallel
		// tile processing
		NumCores int `yaml:"numCores"`

		// Radius is the patch radius; the processing patch side is the
		// next power of two above 2*radius+1
		Radius int `yaml:"radius"`

		// SigmaS is the spatial scale of the bilateral kernels
		SigmaS float32 `yaml:"sigmaS"`

		// GammaR scales the range term of the bilateral kernels;
		// 0 selects 0.4 per channel
		GammaR float32 `yaml:"gammaR"`

		// GammaF scales the frequency shrinkage; 0 selects 0.4 per
		// channel
		GammaF float32 `yaml:"gammaF"`

		// Threshold is the aggregation weight every pixel must reach
		Threshold float32 `yaml:"threshold"`
	} `yaml:"denoise"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Denoise.NumCores = runtime.NumCPU()
	cfg.Denoise.Radius = 8
	cfg.Denoise.SigmaS = 4.0
	cfg.Denoise.GammaR = 0 // per-channel default
	cfg.Denoise.GammaF = 0 // per-channel default
	cfg.Denoise.Threshold = 1.0

	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
