package cascade

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cascade.yaml")
	yaml := `
cascade:
  providers:
    - anthropic
    - openai
    - perplexity
  retry:
    max_attempts: 4
    backoff_base_ms: 250
    multiplier: 3.0
    max_backoff_ms: 10000
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Providers) != 3 || cfg.Providers[0] != "anthropic" {
		t.Errorf("providers = %v", cfg.Providers)
	}
	if cfg.Retry.MaxAttempts != 4 {
		t.Errorf("max_attempts = %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BackoffBase != 250*time.Millisecond {
		t.Errorf("backoff_base = %v", cfg.Retry.BackoffBase)
	}
	if cfg.Retry.Multiplier != 3.0 {
		t.Errorf("multiplier = %v", cfg.Retry.Multiplier)
	}
}

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cascade.yaml")
	if err := os.WriteFile(path, []byte("cascade:\n  providers: [anthropic]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("default max_attempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BackoffBase != 500*time.Millisecond {
		t.Errorf("default backoff_base = %v", cfg.Retry.BackoffBase)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/cascade.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
