package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"orders-ms/internal/config"
	"orders-ms/internal/metrics"
	"orders-ms/internal/product"
	"orders-ms/internal/repository"
	"orders-ms/internal/server"
	"orders-ms/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Database connected")

	nc, err := nats.Connect(strings.Join(cfg.NatsServers, ","), nats.Name("orders-ms"))
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer nc.Close()
	logger.Info("NATS connected", zap.Strings("servers", cfg.NatsServers))

	repo := repository.NewOrder(pool)
	products := product.NewClient(nc, logger)
	svc := service.NewOrder(repo, products, logger)
	m := metrics.NewServerMetrics(prometheus.DefaultRegisterer)

	srv := server.New(nc, svc, m, logger)
	if err := srv.Start(); err != nil {
		logger.Fatal("Failed to start RPC server", zap.Error(err))
	}
	logger.Info("Order service started")

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", metrics.Handler())

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()
	logger.Info("Health and metrics listening", zap.Int("port", cfg.Port))

	<-ctx.Done()
	logger.Info("Shutting down...")

	if err := srv.Drain(); err != nil {
		logger.Error("Failed to drain subscriptions", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
