// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui renders the sticky note board in the terminal with bubbletea.
//
// The model never owns board state: every change arrives as an immutable
// snapshot from [Board.Subscribe], and every user action is a command that
// calls the board and reports back with a message.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/models"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("user quit")

type TUI struct {
	board  Board
	info   models.AppBuildInfo
	logger *logger.Logger
}

func New(board Board, info models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	if board == nil {
		return nil, errors.New("tui: board is required")
	}
	return &TUI{board: board, info: info, logger: logger}, nil
}

// Run shows the board until the user quits or ctx is done. Quitting from
// the keyboard returns ErrUserQuit.
func (t *TUI) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newAppModel(t.board, t.info)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	go func() {
		for snap := range t.board.Subscribe(ctx) {
			p.Send(snapshotMsg(snap))
		}
	}()

	finalModel, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	if result, ok := finalModel.(appModel); ok && result.quitByUser {
		t.logger.Info().Str("func", "*TUI.Run").Msg("user left the board")
		return ErrUserQuit
	}
	return nil
}
