package main

import (
	"context"
	"os"
	"time"

	"tally/internal/cli"
	gsheet "tally/internal/sheets/google"
	"tally/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Mirror configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	storeResult := cli.InitStore(ctx, logger, cfg)
	defer func() {
		if storeResult.Cleanup != nil {
			if err := storeResult.Cleanup(); err != nil {
				logger.Error("Store cleanup failed", "error", err)
			}
		}
	}()

	client, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	mirror := worker.NewMirror(storeResult.Store, client, worker.MirrorConfig{
		PollInterval: cfg.MirrorInterval,
	})

	runCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mirror.Stop(stopCtx); err != nil {
			logger.Error("Mirror stop error", "error", err)
		}
	})

	logger.Info("Starting tally-sync",
		"interval", cfg.MirrorInterval,
		"sheet", cfg.GoogleSheetName)
	if err := mirror.Start(runCtx); err != nil {
		logger.Error("Failed to start mirror", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(runCtx, done)
	logger.Info("tally-sync stopped gracefully")
}
