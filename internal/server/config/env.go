package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every variable, e.g. CREDGATE_SECRET_KEY.
const EnvPrefix = "CREDGATE_"

// parseEnv overlays set environment variables onto config; unset ones keep
// the current value.
func parseEnv(config *Config) error {
	return parseEnvWith(config, nil)
}

func parseEnvWith(config *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(config, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
