package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/performance"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is the content of the mwr.toml file. Command flags override it.
type Config struct {
	Currency  string        `toml:"currency"`   // reporting currency
	RatesFile string        `toml:"rates_file"` // JSONL exchange rates
	Workers   int           `toml:"workers"`    // entities computed in parallel
	Logging   LoggingConfig `toml:"logging"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns the configuration used when there is no file.
func NewDefaultConfig() *Config {
	return &Config{
		Currency: "EUR",
		Workers:  4,
		Logging:  LoggingConfig{Level: "info"},
	}
}

// LoadConfig merges the files in order over the default configuration.
// Missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := performance.ValidateCurrency(c.Currency); err != nil {
		return fmt.Errorf("invalid currency in configuration: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers in configuration: %d", c.Workers)
	}
	return nil
}
