package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"GapDesk/internal/app"
	"GapDesk/internal/config"
	"GapDesk/internal/logging"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.File)

	application := app.New(ctx, cfg, logger)

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
