// Command okapiq-api starts the HTTP surface over the intelligence
// pipeline (spec §6), wiring config, priors, logging, the adapter
// registry, cache tiers, and the Pipeline Orchestrator together the
// way the teacher's cmd/api/main.go wires its own agent manager and
// HTTP handlers.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"okapiq/pkg/api"
	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/cache"
	"okapiq/pkg/okapiq/config"
	"okapiq/pkg/okapiq/crawler"
	"okapiq/pkg/okapiq/enrich"
	"okapiq/pkg/okapiq/logging"
	"okapiq/pkg/okapiq/normalize"
	"okapiq/pkg/okapiq/pipeline"
	"okapiq/pkg/okapiq/priors"
	"okapiq/pkg/okapiq/score"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	table, err := priors.Load("config/priors.yaml", "config/priors.hjson")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load priors table")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	var pool *pgxpool.Pool
	if cfg.PostgresDSN != "" {
		pool, err = pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error().Err(err).Msg("failed to connect to postgres, continuing without the durable cache tier")
			pool = nil
		}
	}

	ttl := table.CacheTTLSeconds
	if cfg.CacheTTLSeconds > 0 {
		ttl = cfg.CacheTTLSeconds
	}
	respCache := cache.New(ttl, table.CacheMaxEntries, redisClient, pool, logging.Component(log, "cache"))
	if err := respCache.EnsureSchema(ctx); err != nil {
		log.Error().Err(err).Msg("failed to ensure cache schema, durable tier may be unavailable")
	}
	sweeper := cache.StartSweeper(respCache, logging.Component(log, "cache"))
	defer sweeper.Stop()

	registry := adapters.BuildRegistry(cfg, table)
	hub := crawler.NewHub(registry, table, logging.Component(log, "crawler"))
	normalizer := normalize.New(table, logging.Component(log, "normalize"))
	enricher := enrich.New(cfg, registry, table, logging.Component(log, "enrich"))
	scorer := score.New(table, logging.Component(log, "score"))
	geocoder := adapters.NewGeocoder(cfg.GeocoderBaseURL)

	orch := pipeline.New(hub, normalizer, enricher, scorer, geocoder, respCache, table, logging.Component(log, "pipeline"))
	server := api.NewServer(orch, log)

	log.Info().Str("addr", cfg.ListenAddr).Msg("okapiq-api listening")
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("api server exited")
	}
}
