package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"tally/internal/cli"
	apphttp "tally/internal/http"
	"tally/internal/log"
	"tally/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	storeResult := cli.InitStore(ctx, logger, cfg)
	defer func() {
		if storeResult.Cleanup != nil {
			if err := storeResult.Cleanup(); err != nil {
				logger.Error("Store cleanup failed", "error", err)
			}
		}
	}()

	service := services.NewLedgerService(storeResult.Store)
	srv := apphttp.NewServer(":"+cfg.Port, service, log.FromSlog(logger, log.ComponentHTTP))

	_, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting tally server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"ledger_path", cfg.LedgerPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
