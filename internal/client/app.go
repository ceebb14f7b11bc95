package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/tui"
	"github.com/MKhiriev/sticky-chain/internal/workers"
)

type App struct {
	board   Board
	ui      UI
	workers *workers.Workers
	logger  *logger.Logger
}

// NewApp builds the client runtime. jobs run alongside the UI and are
// stopped when it exits.
func NewApp(board Board, ui UI, jobs *workers.Workers, logger *logger.Logger) (*App, error) {
	if board == nil {
		return nil, errors.New("client: board is required")
	}
	if ui == nil {
		return nil, errors.New("client: ui is required")
	}
	if jobs == nil {
		jobs = workers.New()
	}
	return &App{board: board, ui: ui, workers: jobs, logger: logger}, nil
}

// Run starts the board and the background jobs, then blocks in the UI.
// A user quitting the UI is a clean exit.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.board.Start(ctx); err != nil {
		return fmt.Errorf("start board: %w", err)
	}
	defer a.board.Close()

	a.workers.Run(ctx)
	defer a.workers.Stop()

	a.logger.Info().Str("func", "*App.Run").Int("workers", a.workers.Len()).Msg("client started")

	err := a.ui.Run(ctx)
	if err == nil || errors.Is(err, tui.ErrUserQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return fmt.Errorf("ui: %w", err)
}
