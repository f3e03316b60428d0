package main

import (
	"context"
	"errors"
	"fmt"

	"futurechat/internal/config"
	"futurechat/internal/engine"
	"futurechat/internal/knowledge"
	"futurechat/internal/logging"
	"futurechat/internal/matcher"
	"futurechat/internal/matcher/bestmatch"
	"futurechat/internal/matcher/gemini"
	"futurechat/internal/store"
)

// app owns everything built from one config.
type app struct {
	engine  *engine.Engine
	store   store.Store
	watcher *store.Watcher
}

// newApp opens the knowledge store, starts the external matcher and wires
// the engine. Store and matcher failures degrade; they never abort startup.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	timer := logging.StartTimer(logging.CategoryBoot, "newApp")
	defer timer.Stop()

	a := &app{}

	st, err := store.Open(ctx, cfg.Knowledge)
	if err != nil {
		logging.BootWarn("Knowledge store unavailable, learning will not persist: %v", err)
	} else {
		a.store = st
	}
	base := knowledge.NewSeeded(store.LoadOrEmpty(ctx, a.store))

	adapter := matcher.Init(ctx, matcherFactory(cfg), cfg.GetExternalTimeout())
	if cfg.Matcher.TrainCorpus != "" && adapter.Enabled() {
		if n, err := trainCorpusFile(ctx, adapter, cfg.Matcher.TrainCorpus); err != nil {
			logging.BootWarn("Startup training skipped: %v", err)
		} else {
			logging.Boot("Trained %d pairs from %s", n, cfg.Matcher.TrainCorpus)
		}
	}

	opts := []engine.Option{
		engine.WithIdentity(cfg.Name, cfg.Version),
		engine.WithSeed(cfg.Engine.Seed),
		engine.WithHistoryCap(cfg.Engine.HistoryCap),
		engine.WithThresholds(cfg.Engine.Thresholds),
	}
	if a.store != nil {
		opts = append(opts, engine.WithPersister(a.store))
	}
	a.engine = engine.New(base, adapter, opts...)

	if fs, ok := a.store.(*store.FileStore); ok && cfg.Knowledge.Watch {
		w, err := store.NewWatcher(fs, base, 0)
		if err == nil {
			err = w.Start(ctx)
		}
		if err != nil {
			logging.BootWarn("Knowledge file watch disabled: %v", err)
		} else {
			a.watcher = w
		}
	}

	topics, replies := base.Stats()
	logging.Boot("%s v%s ready: %d topics, %d replies, matcher %s",
		cfg.Name, cfg.Version, topics, replies, adapter.Status())
	return a, nil
}

// matcherFactory maps the configured provider to a responder constructor.
func matcherFactory(cfg *config.Config) matcher.Factory {
	switch cfg.Matcher.Provider {
	case config.ProviderBestMatch:
		return func(ctx context.Context) (matcher.Responder, error) {
			return bestmatch.Open(ctx, bestmatch.Config{
				Path:          cfg.Matcher.DatabasePath,
				MinSimilarity: cfg.Matcher.MinSimilarity,
				Seed:          cfg.Matcher.SeedConversation,
			})
		}
	case config.ProviderGemini:
		return func(ctx context.Context) (matcher.Responder, error) {
			return gemini.New(ctx, gemini.Config{
				APIKey: cfg.Matcher.Gemini.APIKey,
				Model:  cfg.Matcher.Gemini.Model,
			})
		}
	default:
		return nil
	}
}

// Close stops the watcher and releases the matcher and store.
func (a *app) Close() error {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	var errs []error
	if a.engine != nil {
		if err := a.engine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close matcher: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}
	return errors.Join(errs...)
}
