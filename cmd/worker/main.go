package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradestack/trade-store/internal/channel"
	"github.com/tradestack/trade-store/internal/config"
	"github.com/tradestack/trade-store/internal/database"
	"github.com/tradestack/trade-store/internal/lifecycle"
	"github.com/tradestack/trade-store/internal/metrics"
	"github.com/tradestack/trade-store/internal/tradestore"
	"github.com/tradestack/trade-store/internal/version"
	"github.com/tradestack/trade-store/internal/worker"
)

func main() {
	configPath := flag.String("config", "configs/local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting worker",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"topic", cfg.Channel.Topic,
		"group_id", cfg.Channel.GroupID,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to the trade store
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	trades := tradestore.NewPostgres(pool)

	// Connect to the lifecycle store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Lifecycle.Addr,
		Password: cfg.Lifecycle.Password,
		DB:       cfg.Lifecycle.DB,
	})
	defer redisClient.Close()
	requests := lifecycle.NewRedisStore(redisClient, cfg.Lifecycle.RequestTTL)
	if err := requests.Ping(ctx); err != nil {
		logger.Error("failed to connect to lifecycle store", "error", err)
		os.Exit(1)
	}

	// Create the channel consumer
	consumer := channel.NewKafkaConsumer(cfg.Channel, logger)
	defer consumer.Close()

	w := worker.New(worker.Config{
		RetryBudget:    cfg.Worker.RetryBudget,
		RetryBaseDelay: cfg.Worker.RetryBaseDelay,
		RetryMaxDelay:  cfg.Worker.RetryMaxDelay,
	}, consumer, trades, requests, logger)

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: metricsHandler(cfg.Metrics.Path),
	}
	go func() {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	logger.Info("worker running", "instance_id", cfg.Instance.ID)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	w.Stop(shutdownCtx)
	metricsServer.Shutdown(shutdownCtx)

	logger.Info("worker stopped")
}

func metricsHandler(path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())
	return mux
}
