package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/roomsuite/pos-backend/internal/checkout"
	"github.com/roomsuite/pos-backend/internal/config"
	"github.com/roomsuite/pos-backend/internal/inventory"
	kafkax "github.com/roomsuite/pos-backend/internal/kafka"
	"github.com/roomsuite/pos-backend/internal/logging"
	"github.com/roomsuite/pos-backend/internal/metrics"
	"github.com/roomsuite/pos-backend/internal/redisx"
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.ServiceName + "-stock-alerts")
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		log.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	alerts := &inventory.Alerts{Redis: rdb, Metrics: m, Log: log}

	// Consumer
	group := getenv("STOCK_ALERTS_GROUP", "stock-alerts")
	workers := mustAtoi(os.Getenv("STOCK_ALERTS_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, checkout.TopicStockRejected, workers, log)

	go func() {
		log.Info("stock-alerts consumer started",
			zap.String("group", group),
			zap.String("topic", checkout.TopicStockRejected),
			zap.Int("workers", workers))
		if err := cons.Start(ctx, alerts.HandleStockRejected); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumer")
	cancel()
}
