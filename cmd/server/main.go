package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vise/internal/audit"
	auditmemory "vise/internal/audit/store/memory"
	"vise/internal/card"
	clienthandler "vise/internal/client/handler"
	clientmetrics "vise/internal/client/metrics"
	clientservice "vise/internal/client/service"
	clientstore "vise/internal/client/store"
	"vise/internal/history"
	historyhandler "vise/internal/history/handler"
	"vise/internal/observability"
	"vise/internal/platform/config"
	"vise/internal/platform/httpserver"
	"vise/internal/platform/logger"
	"vise/internal/platform/metrics"
	platformredis "vise/internal/platform/redis"
	purchasehandler "vise/internal/purchase/handler"
	purchasemetrics "vise/internal/purchase/metrics"
	purchaseservice "vise/internal/purchase/service"
	httptransport "vise/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment)

	tracer, err := observability.NewTracerProvider(cfg.Tracing, cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	var redisClient *platformredis.Client
	var clientStore clientservice.Store = clientstore.NewInMemory()
	if cfg.RedisURL != "" {
		redisClient, err = platformredis.New(cfg.RedisURL, cfg.Redis)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		clientStore = clientstore.NewRedis(redisClient.Client)
		log.Info("using redis client store")
	} else {
		log.Info("using in-memory client store")
	}

	auditPublisher := audit.NewPublisher(auditmemory.NewInMemoryStore(),
		audit.WithAsyncBuffer(cfg.AuditBufferSize),
		audit.WithLogger(log),
	)

	cardConfig := card.DefaultConfig()
	recorder := history.NewRecorder(history.DefaultCapacity)

	clientSvc := clientservice.New(clientStore, card.NewEligibilityEvaluator(cardConfig),
		clientservice.WithLogger(log),
		clientservice.WithMetrics(clientmetrics.New()),
		clientservice.WithAudit(auditPublisher),
		clientservice.WithTracer(tracer),
	)
	purchaseSvc := purchaseservice.New(clientStore, cardConfig,
		purchaseservice.WithLogger(log),
		purchaseservice.WithMetrics(purchasemetrics.New()),
		purchaseservice.WithAudit(auditPublisher),
		purchaseservice.WithTracer(tracer),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:          log,
		Metrics:         metrics.New(),
		Recorder:        recorder,
		Redis:           redisClient,
		ClientHandler:   clienthandler.New(clientSvc, log),
		PurchaseHandler: purchasehandler.New(purchaseSvc, log),
		HistoryHandler:  historyhandler.New(recorder, log),
		PublicDir:       cfg.PublicDir,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting vise-api", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	auditPublisher.Close()
	if err := tracer.Shutdown(ctx); err != nil {
		log.Error("tracer shutdown failed", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("redis close failed", "error", err)
		}
	}
}
