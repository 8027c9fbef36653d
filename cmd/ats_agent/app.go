package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/ats-optimizer/internal/cache"
	"github.com/jonathan/ats-optimizer/internal/config"
	"github.com/jonathan/ats-optimizer/internal/db"
	"github.com/jonathan/ats-optimizer/internal/fetch"
	"github.com/jonathan/ats-optimizer/internal/ingestion"
	"github.com/jonathan/ats-optimizer/internal/keywords"
	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/matching"
	"github.com/jonathan/ats-optimizer/internal/observability"
	"github.com/jonathan/ats-optimizer/internal/ocr"
	"github.com/jonathan/ats-optimizer/internal/ocr/tesseract"
	"github.com/jonathan/ats-optimizer/internal/optimize"
	"github.com/jonathan/ats-optimizer/internal/patterns"
	"github.com/jonathan/ats-optimizer/internal/scoring"
	"github.com/jonathan/ats-optimizer/internal/sections"
	"github.com/sirupsen/logrus"
)

// Redis key namespaces, one per cached concern.
const (
	analysisPrefix = "ats:analysis:"
	keywordsPrefix = "ats:keywords:"
	variantsPrefix = "ats:variants:"
	postingsPrefix = "ats:postings:"
)

// app holds the services shared by every subcommand.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	patterns  *patterns.Compiled
	detector  *sections.Detector
	client    llm.Client
	extractor *ingestion.Orchestrator
	engine    *matching.Engine
	scorer    *scoring.Scorer
	optimizer *optimize.Service
	postings  cache.Cache
	redis     *cache.Redis
	db        *db.DB
}

// newApp loads configuration and wires the services. The database is only connected when
// withDB is set and a URL is configured.
func newApp(ctx context.Context, withDB bool) (*app, error) {
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &app{
		cfg: cfg,
		log: observability.NewLogger(cfg.LogLevel, cfg.LogFormat),
	}

	a.patterns = patterns.DefaultCompiled()
	if cfg.PatternsFile != "" {
		if a.patterns, err = patterns.Load(cfg.PatternsFile); err != nil {
			return nil, fmt.Errorf("failed to load patterns: %w", err)
		}
	}
	a.detector = sections.New(a.patterns)

	if err := a.connectLLM(ctx); err != nil {
		a.close()
		return nil, err
	}

	analysisCache, keywordCache, variantCache, err := a.caches(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	var ocrStage ingestion.OCR
	if cfg.OCRIsEnabled() {
		pipeline := ocr.NewPipeline(ocr.FitzRasterizer{}, tesseract.Recognizer{Languages: cfg.OCRLanguages})
		pipeline.DPI = float64(cfg.OCRDPI)
		pipeline.MaxPages = cfg.OCRMaxPages
		ocrStage = pipeline
	}
	a.extractor = ingestion.NewOrchestrator(nil, ocrStage, a.detector, a.patterns, a.log.WithField("component", "ingestion"))

	resolver := matching.NewResolver(a.client, variantCache, a.log.WithField("component", "resolver"))
	filter := keywords.NewFilter(a.client, keywordCache, a.patterns, a.log.WithField("component", "keywords"))
	a.engine = matching.NewEngine(resolver, filter, analysisCache, a.log.WithField("component", "matching"))
	a.scorer = scoring.NewScorer(resolver, a.detector)
	a.optimizer = optimize.NewService(a.client, a.detector, a.scorer, a.log.WithField("component", "optimizer"))

	if withDB && cfg.DatabaseURL != "" {
		if err := a.connectDB(ctx); err != nil {
			a.close()
			return nil, err
		}
	}
	return a, nil
}

// connectLLM creates the provider client. A missing API key leaves the client nil so the
// deterministic fallbacks run instead.
func (a *app) connectLLM(ctx context.Context) error {
	llmCfg, err := a.cfg.LLMConfig()
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, llmCfg, a.cfg.APIKey)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		a.log.Warn("No LLM API key configured; using rule-based keyword filtering and static variants")
		return nil
	case err != nil:
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	a.client = client
	a.log.WithFields(logrus.Fields{
		"provider": llmCfg.Provider,
		"model":    client.GetModel(llm.TierAdvanced),
	}).Debug("LLM client ready")
	return nil
}

// caches builds one memory tier per concern, each backed by a Redis namespace when
// REDIS_URL is set.
func (a *app) caches(ctx context.Context) (analysis, kw, variants cache.Cache, err error) {
	opts := cache.MemoryOptions{MaxEntries: a.cfg.CacheMaxEntries, TTL: a.cfg.TTL()}
	analysis = cache.NewMemory(opts)
	kw = cache.NewMemory(opts)
	variants = cache.NewMemory(opts)
	a.postings = cache.NewMemory(opts)

	if a.cfg.RedisURL == "" {
		return analysis, kw, variants, nil
	}

	r, err := cache.NewRedis(ctx, a.cfg.RedisURL, analysisPrefix, a.cfg.TTL())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	r.SetLogger(a.log.WithField("component", "redis"))
	a.redis = r
	a.postings = cache.NewTiered(a.postings, r.WithPrefix(postingsPrefix))

	return cache.NewTiered(analysis, r),
		cache.NewTiered(kw, r.WithPrefix(keywordsPrefix)),
		cache.NewTiered(variants, r.WithPrefix(variantsPrefix)),
		nil
}

// fetcher builds a job posting fetcher over the postings cache. browser enables the headless
// Chrome fallback for script-rendered boards.
func (a *app) fetcher(browser bool) *fetch.Fetcher {
	log := a.log.WithField("component", "fetch")
	var renderer fetch.Renderer
	if browser {
		renderer = fetch.ChromeRenderer{Log: log}
	}
	return fetch.NewFetcher(nil, renderer, a.postings, log)
}

func (a *app) connectDB(ctx context.Context) error {
	database, err := db.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	a.db = database
	return nil
}

// close releases the LLM client and cache connections. The database is owned by the server
// once it starts.
func (a *app) close() {
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close LLM client")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis")
		}
	}
}
