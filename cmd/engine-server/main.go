// cmd/engine-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"construction-engine/internal/catalog"
	"construction-engine/internal/common/config"
	"construction-engine/internal/common/database"
	"construction-engine/internal/common/httpclient"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/common/observability"
	"construction-engine/internal/engine"
	"construction-engine/internal/engine/cache"
	"construction-engine/internal/engine/estimate"
	"construction-engine/internal/engine/remote"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	zapLog.Info("Starting engine server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Component logging follows the configured level and format.
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	obs := observability.New("engine-server")
	defer obs.Shutdown()

	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch init failed", zap.Error(err))
	}
	if err := esClient.Ping(); err != nil {
		zapLog.Warn("elasticsearch unreachable, search endpoint degraded", zap.Error(err))
	} else {
		zapLog.Info("Elasticsearch connected successfully")
	}

	var rankCache cache.Cache
	if cfg.Cache.Backend == "redis" {
		redisClient, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis init failed", zap.Error(err))
		}
		if err := redisClient.Ping(ctx); err != nil {
			zapLog.Fatal("redis unreachable", zap.Error(err))
		}
		defer redisClient.Close()
		rankCache = cache.NewRedisCache(redisClient.GetClient())
		zapLog.Info("Redis ranking cache connected successfully")
	} else {
		rankCache, err = cache.NewMemoryCache(cfg.Cache.Capacity)
		if err != nil {
			zapLog.Fatal("memory cache init failed", zap.Error(err))
		}
		zapLog.Info("In-memory ranking cache initialized")
	}

	var completer remote.TextCompleter
	if cfg.Remote.Enabled {
		completer, err = remote.NewGeminiCompleter(ctx, cfg.Remote.Model)
		if err != nil {
			zapLog.Fatal("completion client failed", zap.Error(err))
		}
		zapLog.Info("Completion service client initialized", zap.String("model", cfg.Remote.Model))
	} else {
		zapLog.Info("Remote ranking disabled, heuristic path only")
	}

	var predictor *estimate.Predictor
	if cfg.Predictor.BaseURL != "" {
		predictor = estimate.NewPredictor(
			httpclient.NewClient(time.Duration(cfg.Predictor.Timeout)*time.Millisecond),
			cfg.Predictor.BaseURL,
			estimate.NewEstimator(cfg.Engine),
			log,
		)
		zapLog.Info("Cost predictor client initialized", zap.String("baseURL", cfg.Predictor.BaseURL))
	}

	eng := engine.New(cfg.Engine, completer, rankCache, cfg.Remote.ProviderCap, predictor, log)

	srv := newServer(
		eng,
		catalog.NewStore(pg.DB, log),
		catalog.NewSearch(esClient.Client, cfg.Database.Elasticsearch.Index, log),
		log,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Engine server stopped gracefully")
}
