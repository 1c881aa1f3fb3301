// Package config loads the YAML configuration of the ucon command-line tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the root of the configuration file.
//
// Example:
//
//	log:
//	  level: debug
//	  format: json
//	demo:
//	  length: 8
//	kernels:
//	  workers: 4
//	  min_chunk: 1024
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Demo    DemoConfig    `yaml:"demo"`
	Kernels KernelsConfig `yaml:"kernels"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// DemoConfig sizes the containers built by the demo command.
type DemoConfig struct {
	Length int `yaml:"length" validate:"min=4,max=1000000"`
	Rows   int `yaml:"rows" validate:"min=3,max=10000"`
	Cols   int `yaml:"cols" validate:"min=2,max=10000"`
}

// KernelsConfig controls how gathers and elementwise operations are split
// across goroutines.
type KernelsConfig struct {
	Workers  int `yaml:"workers" validate:"min=1,max=1024"`
	MinChunk int `yaml:"min_chunk" validate:"min=1"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:  LogConfig{Level: "info", Format: "text"},
		Demo: DemoConfig{Length: 10, Rows: 3, Cols: 4},
		Kernels: KernelsConfig{
			Workers:  runtime.NumCPU(),
			MinChunk: 4096,
		},
	}
}

// Load reads and validates the file at path. Missing keys keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid config: %s=%v fails %q", fe.Namespace(), fe.Value(), fe.Tag())
	}
	return fmt.Errorf("invalid config: %w", err)
}
