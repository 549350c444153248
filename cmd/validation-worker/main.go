// Package main provides the validation worker entry point.
// Consumes document build requests, validates them on a worker pool and
// publishes validation reports.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/config"
	"github.com/drfirst/go-clinicaldoc/internal/infrastructure/redpanda"
	"github.com/drfirst/go-clinicaldoc/internal/observability/metrics"
	"github.com/drfirst/go-clinicaldoc/internal/observability/tracing"
	"github.com/drfirst/go-clinicaldoc/internal/service"
	"github.com/drfirst/go-clinicaldoc/internal/worker"
	"github.com/drfirst/go-clinicaldoc/pkg/circuitbreaker"
	"github.com/drfirst/go-clinicaldoc/pkg/idempotency"
	"github.com/drfirst/go-clinicaldoc/pkg/workerpool"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("validation-worker")
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		zap.NewExample().Fatal("failed to create logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	tp, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
	})
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	m := metrics.New(prometheus.DefaultRegisterer)

	admin, err := redpanda.NewAdmin(cfg.KafkaBrokers, logger)
	if err != nil {
		logger.Fatal("admin client creation failed", zap.Error(err))
	}
	setupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := admin.EnsureTopics(setupCtx, redpanda.WorkerTopics(cfg.KafkaPartitions, cfg.KafkaReplicas)); err != nil {
		logger.Fatal("failed to ensure topics", zap.Error(err))
	}
	cancel()

	producerCfg := redpanda.DefaultProducerConfig()
	producerCfg.Brokers = cfg.KafkaBrokers
	producer, err := redpanda.NewProducer(producerCfg, logger)
	if err != nil {
		logger.Fatal("producer creation failed", zap.Error(err))
	}

	breakerCfg := circuitbreaker.DefaultConfig("report-publisher")
	breakerCfg.OnStateChange = func(name string, to circuitbreaker.State) {
		m.CircuitBreakerState.WithLabelValues(name).Set(to.Value())
	}
	breaker, err := circuitbreaker.New(breakerCfg, logger)
	if err != nil {
		logger.Fatal("circuit breaker creation failed", zap.Error(err))
	}

	svc := service.New(logger,
		service.WithMetrics(m),
		service.WithIdentifierRoot(cfg.IdentifierRoot))
	inboxCfg := idempotency.DefaultInboxConfig()
	inboxCfg.IsTerminal = workerpool.IsPermanent
	inbox := idempotency.NewInbox(inboxCfg, logger)
	inbox.StartCleanup()

	processor := worker.NewProcessor(svc, producer, breaker, m, logger).WithInbox(inbox)

	poolCfg := workerpool.DefaultConfig()
	poolCfg.Workers = cfg.WorkerCount
	poolCfg.QueueSize = cfg.QueueSize
	poolCfg.GracefulShutdownTimeout = cfg.ShutdownTimeout
	pool, err := workerpool.New[*redpanda.ConsumedMessage](poolCfg, processor.Handle, logger)
	if err != nil {
		logger.Fatal("worker pool creation failed", zap.Error(err))
	}
	pool.Start()

	consumerCfg := redpanda.DefaultConsumerConfig()
	consumerCfg.Brokers = cfg.KafkaBrokers
	consumerCfg.GroupID = cfg.KafkaGroupID
	consumer, err := redpanda.NewConsumer(consumerCfg, func(ctx context.Context, msg *redpanda.ConsumedMessage) error {
		err := pool.Submit(ctx, msg)
		m.WorkerQueueDepth.Set(float64(pool.Stats().QueueDepth))
		return err
	}, logger)
	if err != nil {
		logger.Fatal("consumer creation failed", zap.Error(err))
	}
	consumer.Start()

	lagCtx, stopLag := context.WithCancel(ctx)
	go pollLag(lagCtx, admin, cfg.KafkaGroupID, cfg.LagInterval, m.ConsumerLag, logger)

	// Probes and metrics
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !pool.IsHealthy() || breaker.State() == circuitbreaker.StateOpen {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	server := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("probe server error", zap.Error(err))
		}
	}()

	logger.Info("validation worker started",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("group", cfg.KafkaGroupID),
		zap.Int("workers", poolCfg.Workers))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancelShutdown()

	// Stop intake first, then drain queued jobs before the producer goes away
	if err := consumer.Stop(); err != nil {
		logger.Warn("consumer stop", zap.Error(err))
	}
	if err := pool.Stop(); err != nil {
		logger.Warn("worker pool stop", zap.Error(err))
	}
	stopLag()
	admin.Close()
	inbox.Stop()
	if err := producer.Close(); err != nil {
		logger.Warn("producer close", zap.Error(err))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("probe server shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	logger.Info("validation worker stopped")
}

// pollLag publishes the consumer group lag until ctx is done
func pollLag(ctx context.Context, admin *redpanda.Admin, group string, every time.Duration, g prometheus.Gauge, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lag, err := admin.Lag(ctx, group)
			if err != nil {
				logger.Debug("consumer lag unavailable", zap.Error(err))
				continue
			}
			g.Set(float64(lag))
		}
	}
}
