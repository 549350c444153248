// Package main provides the validation API entry point.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/api"
	"github.com/drfirst/go-clinicaldoc/internal/config"
	"github.com/drfirst/go-clinicaldoc/internal/observability/metrics"
	"github.com/drfirst/go-clinicaldoc/internal/observability/tracing"
	"github.com/drfirst/go-clinicaldoc/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load("validation-api")
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		zap.NewExample().Fatal("failed to create logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	apiKeys, err := cfg.APIKeys()
	if err != nil {
		logger.Fatal("invalid API keys", zap.Error(err))
	}
	if len(apiKeys) == 0 {
		logger.Warn("API_KEYS is empty, authentication is disabled")
	}

	tp, err := tracing.Init(context.Background(), tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
	})
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	svc := service.New(logger,
		service.WithMetrics(m),
		service.WithIdentifierRoot(cfg.IdentifierRoot))

	router := api.NewRouter(api.RouterConfig{
		ServiceName: cfg.ServiceName,
		Version:     version,
		APIKeys:     apiKeys,
		Metrics:     metrics.Handler(),
	}, svc, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("tracing shutdown error", zap.Error(err))
		}
	}()

	logger.Info("starting validation API", zap.String("port", cfg.Port))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("server stopped")
}
