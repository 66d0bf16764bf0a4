package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ridha-415/filaops-sub002/internal/app"
	"github.com/ridha-415/filaops-sub002/internal/erp"
	"github.com/ridha-415/filaops-sub002/internal/fulfillment"
	"github.com/ridha-415/filaops-sub002/internal/observability"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	metrics := observability.NewMetrics()

	erpClient := erp.NewClient(cfg.ERPBaseURL,
		erp.WithServiceToken(cfg.ERPAdminToken),
		erp.WithObserver(metrics),
		erp.WithHTTPClient(&http.Client{Timeout: cfg.ERPCallTimeout}),
	)
	if err := erpClient.Ping(ctx); err != nil {
		logger.Warn("erp backend ping", slog.Any("error", err))
	}

	fulfillmentService := fulfillment.NewService(erpClient, logger)
	fulfillmentHandler := fulfillment.NewHandler(logger, fulfillmentService)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		FulfillmentHandler: fulfillmentHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
