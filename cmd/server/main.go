package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/moneytravel/internal/auth"
	"github.com/mmynk/moneytravel/internal/avatars"
	"github.com/mmynk/moneytravel/internal/config"
	"github.com/mmynk/moneytravel/internal/events"
	"github.com/mmynk/moneytravel/internal/middleware"
	"github.com/mmynk/moneytravel/internal/rates"
	"github.com/mmynk/moneytravel/internal/service"
	"github.com/mmynk/moneytravel/internal/storage/sqlstore"
	"github.com/mmynk/moneytravel/pkg/api"
	"github.com/mmynk/moneytravel/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger := logging.SetupWith(logging.ParseLevel(cfg.LogLevel), logging.ParseFormat(cfg.LogFormat))
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := sqlstore.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "driver", cfg.DBDriver)

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	avatarStore, err := avatars.NewDiskStore(cfg.AvatarDir, cfg.PublicURL)
	if err != nil {
		return err
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	rateClient := rates.NewClient(cfg.RateURL, cfg.RateTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	// Auth runs first so the logging interceptor sees the user ID.
	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, api.PublicProcedures...),
		middleware.LoggingInterceptor(logger),
		metrics.Interceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(service.NewAuthService(authenticator, jwtManager, logger).Handler(interceptors))
	mux.Handle(service.NewTripService(store, publisher, logger).Handler(interceptors))
	mux.Handle(service.NewLedgerService(store, publisher, logger).Handler(interceptors))
	mux.Handle(service.NewCatalogService(store, publisher, logger).Handler(interceptors))
	mux.Handle(service.NewAssetService(avatarStore, store, publisher, logger).Handler(interceptors))
	mux.Handle(service.NewRateService(rateClient, logger).Handler(interceptors))
	mux.Handle(avatars.URLPrefix, avatarStore.Handler())
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Wrap with h2c for HTTP/2 without TLS.
	handler := h2c.NewHandler(middleware.HTTPLogging(logger, middleware.CORS(mux)), &http2.Server{})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", srv.Addr, "url", cfg.PublicURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Server shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

// newPublisher connects to the broker when one is configured.
func newPublisher(cfg *config.Config, logger *slog.Logger) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		logger.Info("Event publishing disabled")
		return events.Nop{}, nil
	}
	publisher, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Event publishing enabled", "exchange", cfg.AMQPExchange)
	return publisher, nil
}
