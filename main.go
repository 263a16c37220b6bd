package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payment-gateway/internal/api"
	"payment-gateway/internal/checkout"
	"payment-gateway/internal/config"
	"payment-gateway/internal/logging"
	"payment-gateway/internal/metrics"
	"payment-gateway/internal/retry"
	"payment-gateway/internal/square"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := config.MustLoad()

	logger := logging.GetLogger(cfg.Logs)
	metrics.Setup(cfg.Metrics)

	if cfg.Square.AccessToken == "" {
		logger.Warn("SQUARE_ACCESS_TOKEN is not set; vendor endpoints will respond 500")
	}

	client := square.NewClient(cfg.Square, time.Duration(cfg.Retry.RequestTimeoutMs)*time.Millisecond, logger)
	executor := retry.NewExecutor(cfg.Retry, logger)
	service := checkout.NewService(client, executor, cfg.Square, logger)

	mux := http.NewServeMux()
	handler := api.NewHandler(cfg, service, client, logger)
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.CORSMiddleware(api.RequestIDMiddleware(mux)),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("Received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", slog.Any("error", err))
		}
	}()

	logger.Info("Starting payment gateway",
		slog.String("addr", cfg.Server.Addr),
		slog.String("environment", cfg.Square.Environment),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
