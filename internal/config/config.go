// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Cascade    CascadeConfig    `yaml:"cascade" mapstructure:"cascade"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string  `yaml:"key" mapstructure:"key"`
	Model string  `yaml:"model" mapstructure:"model"`
	RPS   float64 `yaml:"rps" mapstructure:"rps"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	Model   string  `yaml:"model" mapstructure:"model"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	Model   string  `yaml:"model" mapstructure:"model"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
}

// NotionConfig holds the optional watchlist database credentials.
type NotionConfig struct {
	Token       string `yaml:"token" mapstructure:"token"`
	WatchlistDB string `yaml:"watchlist_db" mapstructure:"watchlist_db"`
}

// PipelineConfig configures normalization behavior.
type PipelineConfig struct {
	MinMentionConfidence float64 `yaml:"min_mention_confidence" mapstructure:"min_mention_confidence"`
	MaxCitations         int     `yaml:"max_citations" mapstructure:"max_citations"`
	MaxConcurrent        int     `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// CascadeConfig selects provider order and retry bounds. ConfigPath, if
// set, points at a standalone cascade YAML that overrides these values.
type CascadeConfig struct {
	ConfigPath    string   `yaml:"config_path" mapstructure:"config_path"`
	Providers     []string `yaml:"providers" mapstructure:"providers"`
	MaxAttempts   int      `yaml:"max_attempts" mapstructure:"max_attempts"`
	BackoffBaseMs int      `yaml:"backoff_base_ms" mapstructure:"backoff_base_ms"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PERCEPTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "perception.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.rps", 2.0)
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.rps", 2.0)
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("perplexity.rps", 1.0)
	v.SetDefault("pipeline.min_mention_confidence", 0.6)
	v.SetDefault("pipeline.max_citations", 5)
	v.SetDefault("pipeline.max_concurrent", 3)
	v.SetDefault("cascade.providers", []string{"anthropic", "openai", "perplexity"})
	v.SetDefault("cascade.max_attempts", 3)
	v.SetDefault("cascade.backoff_base_ms", 500)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
