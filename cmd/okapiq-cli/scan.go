package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/cache"
	"okapiq/pkg/okapiq/config"
	"okapiq/pkg/okapiq/crawler"
	"okapiq/pkg/okapiq/enrich"
	"okapiq/pkg/okapiq/logging"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/normalize"
	"okapiq/pkg/okapiq/pipeline"
	"okapiq/pkg/okapiq/priors"
	"okapiq/pkg/okapiq/score"
)

var (
	scanIndustry    string
	scanRadius      int
	scanMaxBusiness int
	scanUseCache    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [location]",
	Short: "Run one intelligence scan and print the response JSON to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanIndustry, "industry", "", "industry free text (mapped into a closed category)")
	scanCmd.Flags().IntVar(&scanRadius, "radius", 25, "search radius in miles [1,200]")
	scanCmd.Flags().IntVar(&scanMaxBusiness, "max-businesses", 50, "maximum businesses to return [1,500]")
	scanCmd.Flags().BoolVar(&scanUseCache, "use-cache", true, "reuse a cached response when available")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	table, err := priors.Load("config/priors.yaml", "config/priors.hjson")
	if err != nil {
		return fmt.Errorf("loading priors table: %w", err)
	}

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	var pool *pgxpool.Pool
	if cfg.PostgresDSN != "" {
		pool, _ = pgxpool.New(ctx, cfg.PostgresDSN)
	}

	respCache := cache.New(table.CacheTTLSeconds, table.CacheMaxEntries, redisClient, pool, logging.Component(log, "cache"))

	registry := adapters.BuildRegistry(cfg, table)
	hub := crawler.NewHub(registry, table, logging.Component(log, "crawler"))
	normalizer := normalize.New(table, logging.Component(log, "normalize"))
	enricher := enrich.New(cfg, registry, table, logging.Component(log, "enrich"))
	scorer := score.New(table, logging.Component(log, "score"))
	geocoder := adapters.NewGeocoder(cfg.GeocoderBaseURL)

	orch := pipeline.New(hub, normalizer, enricher, scorer, geocoder, respCache, table, logging.Component(log, "pipeline"))

	useCache := scanUseCache
	req := model.Request{
		Location:      args[0],
		Industry:      scanIndustry,
		RadiusMiles:   scanRadius,
		MaxBusinesses: scanMaxBusiness,
		UseCache:      &useCache,
	}

	resp := orch.Process(ctx, req)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
