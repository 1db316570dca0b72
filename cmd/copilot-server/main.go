// cmd/copilot-server/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"marigold-copilot/internal/api"
	"marigold-copilot/internal/common/camunda"
	"marigold-copilot/internal/common/config"
	"marigold-copilot/internal/common/database"
	"marigold-copilot/internal/common/logger"
	"marigold-copilot/internal/common/observability"
	"marigold-copilot/internal/copilot/router"
	"marigold-copilot/internal/copilot/session"
	"marigold-copilot/internal/copilot/transcript"
	generateresponse "marigold-copilot/internal/workers/copilot/generate-response"
	"marigold-copilot/pkg/registry"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting copilot server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}

	ctx := context.Background()

	// --- Surfaces ---
	surfaces := registry.Default()
	if cfg.Surfaces.RegistryPath != "" {
		surfaces, err = registry.LoadRegistry(cfg.Surfaces.RegistryPath)
		if err != nil {
			zapLog.Fatal("surface registry load failed", zap.String("path", cfg.Surfaces.RegistryPath), zap.Error(err))
		}
		if err := surfaces.Validate(); err != nil {
			zapLog.Fatal("surface registry invalid", zap.Error(err))
		}
	}
	zapLog.Info("Surface registry loaded", zap.Int("surfaces", len(surfaces.Surfaces)))

	// --- Transcript sinks ---
	sinks := transcript.NewFanout()
	readiness := map[string]api.ReadinessCheck{}

	if cfg.Transcripts.Redis.Enabled {
		var rdb *redis.Client
		err = retryWithBackoff(func() error {
			rdb = database.NewRedis(cfg.Database.Redis)
			if err := database.PingRedis(ctx, rdb); err != nil {
				_ = rdb.Close()
				return err
			}
			return nil
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()

		sinks.Add("redis", transcript.NewRedisSink(rdb, time.Duration(cfg.Transcripts.Redis.TTL)*time.Second))
		readiness["redis"] = func(ctx context.Context) error { return database.PingRedis(ctx, rdb) }
		zapLog.Info("Redis transcript sink enabled")
	}

	if cfg.Transcripts.Postgres.Enabled {
		var db *sql.DB
		err = retryWithBackoff(func() error {
			var err error
			db, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return database.PingPostgres(ctx, db)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer db.Close()

		pgSink, err := transcript.NewPostgresSink(db, cfg.Transcripts.Postgres.Table)
		if err != nil {
			zapLog.Fatal("postgres transcript sink", zap.Error(err))
		}
		if err := pgSink.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("postgres transcript schema", zap.Error(err))
		}
		sinks.Add("postgres", pgSink)
		readiness["postgres"] = func(ctx context.Context) error { return database.PingPostgres(ctx, db) }
		zapLog.Info("PostgreSQL transcript sink enabled", zap.String("table", cfg.Transcripts.Postgres.Table))
	}

	if cfg.Transcripts.Elasticsearch.Enabled {
		var es *elasticsearch.Client
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return database.PingElasticsearch(ctx, es)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}

		sinks.Add("elasticsearch", transcript.NewElasticsearchSink(es, cfg.Transcripts.Elasticsearch.Index))
		readiness["elasticsearch"] = func(ctx context.Context) error { return database.PingElasticsearch(ctx, es) }
		zapLog.Info("Elasticsearch transcript sink enabled", zap.String("index", cfg.Transcripts.Elasticsearch.Index))
	}

	// --- Sessions ---
	rt := router.New(nil)
	opts := session.Options{
		MinLatency:     config.GetDuration(cfg.Copilot.MinLatency),
		MaxLatency:     config.GetDuration(cfg.Copilot.MaxLatency),
		RevealInterval: config.GetDuration(cfg.Copilot.RevealInterval),
		SinkTimeout:    config.GetDuration(cfg.Transcripts.WriteTimeout),
		Logger:         log,
		Observability:  obs,
	}
	if sinks.Len() > 0 {
		opts.Sink = sinks
	}
	manager := session.NewManager(surfaces, rt, opts, cfg.Copilot.MaxSessions)

	// --- Zeebe worker ---
	var (
		zeebeClient zbc.Client
		jobWorker   worker.JobWorker
	)
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebeClient, err = camunda.Connect(ctx, cfg.Camunda.BrokerAddress, 10*time.Second)
			if err != nil && !camunda.IsRetryable(err) {
				zapLog.Error("Zeebe error is not transient", zap.Error(err))
			}
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		handler := generateresponse.NewHandler(generateresponse.LoadConfig(cfg), rt, surfaces, log)
		jobWorker = camunda.StartWorker(zeebeClient, generateresponse.TaskType,
			config.GetWorkerConfig(cfg, generateresponse.TaskType), handler.Handle, log)
	}

	// --- HTTP server ---
	server := api.NewServer(manager, surfaces, log)
	for name, check := range readiness {
		server.AddReadinessCheck(name, check)
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	manager.CloseAll()

	if jobWorker != nil {
		jobWorker.Close()
	}
	if zeebeClient != nil {
		if err := zeebeClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down observability", zap.Error(err))
	}

	zapLog.Info("Copilot server stopped gracefully")
}
