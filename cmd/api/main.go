package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/roomsuite/pos-backend/internal/checkout"
	"github.com/roomsuite/pos-backend/internal/config"
	"github.com/roomsuite/pos-backend/internal/httpx"
	"github.com/roomsuite/pos-backend/internal/inventory"
	kafkax "github.com/roomsuite/pos-backend/internal/kafka"
	"github.com/roomsuite/pos-backend/internal/logging"
	"github.com/roomsuite/pos-backend/internal/metrics"
	"github.com/roomsuite/pos-backend/internal/postgres"
	"github.com/roomsuite/pos-backend/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.ServiceName)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	created := kafkax.NewProducer(cfg.KafkaBrokers, checkout.TopicTransactionCreated, 1024, log)
	created.Start(ctx)
	rejects := kafkax.NewProducer(cfg.KafkaBrokers, checkout.TopicStockRejected, 1024, log)
	rejects.Start(ctx)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	// Store, gateway, allocator, service
	repo := &checkout.Repo{DB: pool}
	stock := &inventory.Postgres{DB: pool}
	codes := &checkout.SequenceAllocator{Redis: rdb, Counts: repo, Log: log}
	svc := checkout.NewService(repo, stock, codes, created, rejects, m, log, cfg.ServiceName)

	// HTTP
	router := httpx.NewRouter(log, reg)
	th := &httpx.TransactionsHandler{
		Svc:      svc,
		Validate: validator.New(),
		Log:      log,
	}
	th.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	created.Close() // close inbox -> flush & close writer
	rejects.Close()
	cancel() // stop producer loops
	created.WaitClosed()
	rejects.WaitClosed()
}
