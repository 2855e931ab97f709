package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// parseEnv overlays cfg with GETFIT_* variables. Unset variables keep the
// value already in cfg.
func parseEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}
