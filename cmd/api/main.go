package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/minhvule/teacart/api/controllers"
	"github.com/minhvule/teacart/api/routes"
	"github.com/minhvule/teacart/internal/cart"
	"github.com/minhvule/teacart/internal/snapshot"
	"github.com/minhvule/teacart/internal/upstream"
	"github.com/minhvule/teacart/pkg/config"
	"github.com/minhvule/teacart/pkg/db"
	"github.com/minhvule/teacart/pkg/logger"
	"github.com/minhvule/teacart/pkg/metrics"
	"github.com/minhvule/teacart/pkg/migrate"
	"github.com/minhvule/teacart/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cartMetrics := metrics.NewCartMetrics(registry)

	var (
		persister   snapshot.Cache
		cachePinger controllers.Pinger
	)
	if cfg.Snapshot.IsRedis() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		cache, err := snapshot.NewRedisCache(redisClient, cfg.Snapshot.TTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create snapshot cache", err)
			os.Exit(1)
		}
		persister = cache
		cachePinger = redisClient
	} else {
		dbClient, err := db.New(context.Background(), cfg.Cache, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap snapshot database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing snapshot database", err)
			}
		}()

		if cfg.Cache.AutoMigrate {
			sqlDB, err := dbClient.SQLDB()
			if err != nil {
				logg.Error(context.Background(), "failed to get sql handle", err)
				os.Exit(1)
			}
			if err := migrate.Up(context.Background(), sqlDB, cfg.Cache.Driver); err != nil {
				logg.Error(context.Background(), "failed to run snapshot migrations", err)
				os.Exit(1)
			}
		}

		cache, err := snapshot.NewSQLCache(dbClient.DB())
		if err != nil {
			logg.Error(context.Background(), "failed to create snapshot cache", err)
			os.Exit(1)
		}
		persister = cache
		cachePinger = dbClient
	}

	upstreamClient, err := upstream.New(cfg.Upstream, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create upstream client", err)
		os.Exit(1)
	}

	manager, err := cart.NewManager(upstreamClient, persister, logg, cartMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":              cfg.App.Env,
		"addr":             addr,
		"snapshot_backend": cfg.Snapshot.Backend,
	})
	logg.Info(ctx, "starting cart api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			Manager:        manager,
			CachePinger:    cachePinger,
			UpstreamPinger: upstreamClient,
			Registry:       registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "cart api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
