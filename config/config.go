// Package config loads texcas settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the complete texcas configuration.
type Config struct {
	Locale         string        `yaml:"locale" mapstructure:"locale" validate:"oneof=fr en"`
	ResetPolicy    string        `yaml:"reset_policy" mapstructure:"reset_policy" validate:"oneof=never before after"`
	Engines        []string      `yaml:"engines" mapstructure:"engines" validate:"min=1,unique,dive,oneof=numeric symbolic"`
	ParseCacheSize int           `yaml:"parse_cache_size" mapstructure:"parse_cache_size" validate:"gte=0,lte=1000000"`
	Logging        LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Server         ServerConfig  `yaml:"server" mapstructure:"server"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json text"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr" mapstructure:"addr" validate:"required,hostname_port"`
	MaxBodyBytes  int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"gt=0"`
	MaxInputChars int    `yaml:"max_input_chars" mapstructure:"max_input_chars" validate:"gt=0"`
	Metrics       bool   `yaml:"metrics" mapstructure:"metrics"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Locale:         "fr",
		ResetPolicy:    "never",
		Engines:        []string{"numeric", "symbolic"},
		ParseCacheSize: 512,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:          "127.0.0.1:8080",
			MaxBodyBytes:  1 << 20,
			MaxInputChars: 4096,
			Metrics:       true,
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
