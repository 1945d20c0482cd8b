package cascade

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Config is the cascade configuration: provider order and retry policy.
// Provider names reference capabilities registered by the caller; unknown
// names are skipped at wiring time, not here.
type Config struct {
	Providers []string
	Retry     RetryPolicy
}

// rawConfig is the YAML shape. Durations are millisecond integers since
// the YAML decoder has no native duration support.
type rawConfig struct {
	Cascade struct {
		Providers []string `yaml:"providers"`
		Retry     struct {
			MaxAttempts   int     `yaml:"max_attempts"`
			BackoffBaseMs int     `yaml:"backoff_base_ms"`
			Multiplier    float64 `yaml:"multiplier"`
			MaxBackoffMs  int     `yaml:"max_backoff_ms"`
		} `yaml:"retry"`
	} `yaml:"cascade"`
}

// LoadConfig reads cascade config from a YAML file with a top-level
// "cascade" key.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "cascade: read config %s", path)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(err, "cascade: parse config %s", path)
	}

	cfg := &Config{
		Providers: raw.Cascade.Providers,
		Retry: RetryPolicy{
			MaxAttempts: raw.Cascade.Retry.MaxAttempts,
			BackoffBase: time.Duration(raw.Cascade.Retry.BackoffBaseMs) * time.Millisecond,
			Multiplier:  raw.Cascade.Retry.Multiplier,
			MaxBackoff:  time.Duration(raw.Cascade.Retry.MaxBackoffMs) * time.Millisecond,
		},
	}
	cfg.Retry = cfg.Retry.withDefaults()
	return cfg, nil
}
