package main

import (
	"context"
	"fmt"

	"github.com/jonathan/applicant-ranker/internal/cache"
	rediscache "github.com/jonathan/applicant-ranker/internal/cache/redis"
	"github.com/jonathan/applicant-ranker/internal/config"
	"github.com/jonathan/applicant-ranker/internal/db"
	"github.com/jonathan/applicant-ranker/internal/dictionary"
	"github.com/jonathan/applicant-ranker/internal/llm"
	"github.com/jonathan/applicant-ranker/internal/logger"
	"github.com/jonathan/applicant-ranker/internal/normalize"
	"github.com/jonathan/applicant-ranker/internal/ranking"
	"go.uber.org/zap"
)

// application is the wired ranking core shared by every subcommand.
type application struct {
	cfg        *config.Config
	log        *zap.Logger
	loader     *dictionary.Loader
	normalizer *normalize.Normalizer
	pipeline   *ranking.Pipeline
	client     llm.Client
	closers    []func() error
}

type buildOptions struct {
	// noAI skips the text-generation client even when an API key is configured.
	noAI bool
}

func newApplication(ctx context.Context, opts buildOptions) (*application, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &application{cfg: cfg, log: log}

	degrees, eligibilities, err := a.dictionarySources(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	a.loader = dictionary.NewLoader(degrees, eligibilities, log.Named("dictionary"))

	c := a.newCache(ctx)
	a.closers = append(a.closers, c.Close)

	switch {
	case opts.noAI:
		log.Debug("AI steps disabled by flag")
	case cfg.LLM.APIKey == "":
		log.Info("no API key configured, AI steps disabled")
	default:
		client, err := llm.NewClient(ctx, cfg.LLM.ClientConfig(), cfg.LLM.APIKey)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.client = client
		a.closers = append(a.closers, client.Close)
	}

	a.normalizer = normalize.New(a.loader, a.client, normalize.Options{
		Cache:    c,
		CacheTTL: cfg.Cache.TTL,
		Logger:   log.Named("normalize"),
	})

	rankOpts := cfg.RankingOptions()
	if opts.noAI {
		rankOpts.AITieBreak = false
		rankOpts.Insights = false
	}
	a.pipeline = ranking.NewPipeline(a.normalizer, a.client, log.Named("ranking"), rankOpts)

	return a, nil
}

func (a *application) dictionarySources(ctx context.Context) (dictionary.Source, dictionary.Source, error) {
	d := a.cfg.Dictionaries
	if d.Source != config.SourcePostgres {
		return dictionary.FileSource{Path: d.DegreesPath}, dictionary.FileSource{Path: d.EligibilitiesPath}, nil
	}

	database, err := db.Connect(ctx, d.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to dictionary database: %w", err)
	}
	a.closers = append(a.closers, func() error {
		database.Close()
		return nil
	})

	degrees, err := db.NewDictionaryStore(database, d.Table, d.DegreesName)
	if err != nil {
		return nil, nil, err
	}
	eligibilities, err := db.NewDictionaryStore(database, d.Table, d.EligibilitiesName)
	if err != nil {
		return nil, nil, err
	}
	return degrees, eligibilities, nil
}

// newCache returns the configured classification cache. An unreachable
// Redis degrades to the in-process cache.
func (a *application) newCache(ctx context.Context) cache.Cache {
	opts := a.cfg.Cache.Options()
	if a.cfg.Cache.Backend != config.CacheRedis {
		return cache.NewMemory(opts)
	}

	rc := rediscache.New(opts)
	if err := rc.Ping(ctx); err != nil {
		a.log.Warn("redis unavailable, using in-memory cache",
			zap.String("addr", a.cfg.Cache.RedisAddr), zap.Error(err))
		_ = rc.Close()
		return cache.NewMemory(opts)
	}
	return rc
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Debug("close failed", zap.Error(err))
		}
	}
	a.closers = nil
	_ = a.log.Sync()
}
