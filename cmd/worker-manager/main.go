// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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

	rp "construction-engine/internal/workers/rank-providers"
	sp "construction-engine/internal/workers/search-providers"
	sr "construction-engine/internal/workers/synthesize-report"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Component logging follows the configured level and format.
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init ranking cache ---
	var rankCache cache.Cache
	if cfg.Cache.Backend == "redis" {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
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

	// --- Init completion service client ---
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

	// --- Init cost predictor ---
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

	providerStore := catalog.NewStore(pg.DB, log)
	providerSearch := catalog.NewSearch(esClient.Client, cfg.Database.Elasticsearch.Index, log)

	// --- Register Workers ---
	rankHandler := rp.NewHandler(
		&rp.Config{
			DefaultCount: 5,
			Timeout:      time.Duration(cfg.Remote.Timeout) * time.Millisecond,
		},
		eng, providerStore, log,
	)
	startWorker(zeebeClient, rp.TaskType, cfg.Camunda, rankHandler.Handle, zapLog)

	reportHandler := sr.NewHandler(
		&sr.Config{
			DefaultTopN: 3,
			Timeout:     time.Duration(cfg.Camunda.Timeout) * time.Millisecond,
		},
		eng, log,
	)
	startWorker(zeebeClient, sr.TaskType, cfg.Camunda, reportHandler.Handle, zapLog)

	searchHandler := sp.NewHandler(
		&sp.Config{
			DefaultSize: 20,
			Timeout:     time.Duration(cfg.Camunda.Timeout) * time.Millisecond,
		},
		providerSearch, log,
	)
	startWorker(zeebeClient, sp.TaskType, cfg.Camunda, searchHandler.Handle, zapLog)

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, ccfg config.CamundaConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(ccfg.MaxJobsActive).
		Timeout(time.Duration(ccfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", ccfg.MaxJobsActive),
		zap.Int("timeout_ms", ccfg.Timeout),
	)
}
