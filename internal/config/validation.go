package config

import (
	"fmt"
	"strings"

	"github.com/IgorBayerl/swift-report-ingest/internal/logging"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser"
)

// Validate checks that the configuration can drive a run.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration object is nil")
	}
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return fmt.Errorf("base_dir must not be empty")
	}
	if !logging.ValidLevel(cfg.Logger.Level) {
		return fmt.Errorf("logger directive is invalid: unknown level %q", cfg.Logger.Level)
	}
	if _, err := parser.ParseKinds(cfg.Disabled); err != nil {
		return fmt.Errorf("disabled directive is invalid: %w", err)
	}
	if _, err := cfg.Filter(); err != nil {
		return fmt.Errorf("exclusions directive is invalid: %w", err)
	}
	for _, k := range cfg.EnabledKinds() {
		if len(cfg.Patterns(k)) == 0 {
			return fmt.Errorf("reports directive is invalid: no pattern for %s", k)
		}
	}
	if cfg.Output.Sarif != "" && cfg.Output.Sarif == cfg.Output.Coverage {
		return fmt.Errorf("output directive is invalid: sarif and coverage outputs are the same file")
	}
	return nil
}
