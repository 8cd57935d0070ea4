package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"GapDesk/internal/config"
	"GapDesk/internal/infrastructure/api"
	"GapDesk/internal/infrastructure/storage"
	"GapDesk/internal/logging"
	"GapDesk/internal/ports"
	"GapDesk/internal/tui"
)

// Application wires config to the backend client, optional ledger and TUI.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	ledger *storage.PostgresLedger
	deps   tui.Deps
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.File)
	}

	client := api.NewClient(cfg.API, cfg.Downloads.Dir, baseLogger.With("component", "api"))

	var ledger *storage.PostgresLedger
	var ledgerPort ports.Ledger
	if cfg.Ledger.DSN != "" {
		opened, err := storage.Open(ctx, cfg.Ledger.DSN)
		if err != nil {
			baseLogger.Warn("export ledger disabled", "error", err)
		} else {
			ledger = opened
			ledgerPort = opened
		}
	}

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		ledger: ledger,
		deps: tui.Deps{
			Projects: client,
			Articles: client,
			Results:  client,
			Gaps:     client,
			Exports:  client,
			Ledger:   ledgerPort,
			Logger:   baseLogger.With("component", "tui"),
		},
	}
}

// Run starts the interactive program and blocks until the user quits.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		if a.ledger != nil {
			if err := a.ledger.Close(); err != nil {
				a.logger.Warn("close ledger", "error", err)
			}
		}
	}()

	program := tea.NewProgram(tui.New(a.deps), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
