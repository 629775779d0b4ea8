package cmd

import (
	"context"
	"fmt"

	"goship/config"
	"goship/dedup"
	"goship/mapping"
	"goship/reconcile"
	"goship/storage"
	"goship/templates"
)

// buildEngine wires the mapping engine from configuration. The AI provider is
// only attached when enabled and credentialed; the engine falls back to the
// heuristic provider on its own otherwise.
func buildEngine(cfg config.Config) *mapping.Engine {
	opts := []mapping.Option{}
	if cfg.AI.TimeoutSeconds > 0 {
		opts = append(opts, mapping.WithAITimeout(cfg.AI.AITimeout()))
	}
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		opts = append(opts, mapping.WithAIProvider(mapping.NewGeminiProvider(mapping.GeminiConfig{
			APIKey: cfg.AI.APIKey,
			Model:  cfg.AI.Model,
		})))
	}
	return mapping.NewEngine(opts...)
}

// buildService assembles the import pipeline on top of an open store.
func buildService(ctx context.Context, store *storage.SQLiteStore, cfg config.Config) (*reconcile.Service, *mapping.Engine, error) {
	locationCtx, err := store.LocationContext(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load location reference data: %w", err)
	}

	engine := buildEngine(cfg)
	service := reconcile.NewService(
		templates.NewMatcher(store),
		engine,
		dedup.NewChecker(store),
		locationCtx,
	)
	return service, engine, nil
}
