package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds flag defaults read from the environment.
// Command-line flags always win.
type EnvConfig struct {
	Database string `env:"HOOKS_DB"`
	Level    string `env:"HOOKS_LEVEL"`
	Format   string `env:"HOOKS_FORMAT" envDefault:"text"`
	Verbose  bool   `env:"HOOKS_VERBOSE"`
}

// ParseEnv loads EnvConfig from environment variables.
func ParseEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
