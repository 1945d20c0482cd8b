package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/perception-cli/internal/cascade"
	"github.com/sells-group/perception-cli/internal/model"
	"github.com/sells-group/perception-cli/internal/pipeline"
	"github.com/sells-group/perception-cli/internal/provider"
	"github.com/sells-group/perception-cli/internal/registry"
	"github.com/sells-group/perception-cli/internal/store"
	anthropicpkg "github.com/sells-group/perception-cli/pkg/anthropic"
	"github.com/sells-group/perception-cli/pkg/notion"
	"github.com/sells-group/perception-cli/pkg/openai"
	"github.com/sells-group/perception-cli/pkg/perplexity"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "perception.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// cascadeSettings resolves the provider order and retry policy, preferring
// a standalone cascade YAML when one is configured.
func cascadeSettings() ([]string, cascade.RetryPolicy, error) {
	if cfg.Cascade.ConfigPath != "" {
		cc, err := cascade.LoadConfig(cfg.Cascade.ConfigPath)
		if err != nil {
			return nil, cascade.RetryPolicy{}, err
		}
		return cc.Providers, cc.Retry, nil
	}
	return cfg.Cascade.Providers, cascade.RetryPolicy{
		MaxAttempts: cfg.Cascade.MaxAttempts,
		BackoffBase: time.Duration(cfg.Cascade.BackoffBaseMs) * time.Millisecond,
	}, nil
}

// initAdapters builds one provider adapter per configured cascade entry.
// Providers without an API key are skipped.
func initAdapters() ([]provider.Adapter, error) {
	providers, _, err := cascadeSettings()
	if err != nil {
		return nil, err
	}

	var adapters []provider.Adapter
	for _, name := range providers {
		switch name {
		case "anthropic":
			if cfg.Anthropic.Key == "" {
				continue
			}
			client := anthropicpkg.NewClient(cfg.Anthropic.Key)
			adapters = append(adapters, provider.NewAnthropic(client, cfg.Anthropic.Model, provider.NewLimiter(cfg.Anthropic.RPS)))
		case "openai":
			if cfg.OpenAI.Key == "" {
				continue
			}
			client := openai.NewClient(cfg.OpenAI.Key, openai.WithBaseURL(cfg.OpenAI.BaseURL), openai.WithModel(cfg.OpenAI.Model))
			adapters = append(adapters, provider.NewOpenAI(client, cfg.OpenAI.Model, provider.NewLimiter(cfg.OpenAI.RPS)))
		case "perplexity":
			if cfg.Perplexity.Key == "" {
				continue
			}
			client := perplexity.NewClient(cfg.Perplexity.Key, perplexity.WithBaseURL(cfg.Perplexity.BaseURL), perplexity.WithModel(cfg.Perplexity.Model))
			adapters = append(adapters, provider.NewPerplexity(client, cfg.Perplexity.Model, provider.NewLimiter(cfg.Perplexity.RPS)))
		default:
			return nil, eris.Errorf("unknown provider in cascade: %s", name)
		}
	}

	if len(adapters) == 0 {
		return nil, eris.New("no providers configured: set at least one API key")
	}
	return adapters, nil
}

func initPipeline() (*pipeline.Pipeline, error) {
	adapters, err := initAdapters()
	if err != nil {
		return nil, err
	}
	_, retry, err := cascadeSettings()
	if err != nil {
		return nil, err
	}

	return pipeline.New(adapters, pipeline.Options{
		MinMentionConfidence: cfg.Pipeline.MinMentionConfidence,
		MaxCitations:         cfg.Pipeline.MaxCitations,
		MaxConcurrent:        cfg.Pipeline.MaxConcurrent,
		Retry:                retry,
	}), nil
}

// loadWatchlist reads brands from Notion when a token is configured,
// otherwise from the given fixture file.
func loadWatchlist(ctx context.Context, fixturePath string) ([]model.Brand, error) {
	if cfg.Notion.Token != "" && cfg.Notion.WatchlistDB != "" {
		client := notion.NewClient(cfg.Notion.Token)
		return registry.LoadWatchlist(ctx, client, cfg.Notion.WatchlistDB)
	}
	if fixturePath == "" {
		return nil, eris.New("no watchlist source: configure Notion or pass --watchlist")
	}
	return registry.LoadWatchlistFromFile(fixturePath)
}
