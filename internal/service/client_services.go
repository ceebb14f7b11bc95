package service

import (
	"github.com/MKhiriev/sticky-chain/internal/adapter"
	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/store"
)

type ClientServices struct {
	Board           *Board
	NotificationJob NotificationJob
}

// NewClientServices wires a board over ledger. storages may carry a nil
// SnapshotRepository when the cache is disabled.
func NewClientServices(cfg *config.ClientConfig, ledger *adapter.Ledger, storages *store.ClientStorages, logger *logger.Logger) (*ClientServices, error) {
	deps := BoardDeps{
		Reader:  ledger.Reader,
		Writer:  ledger.Writer,
		Mutator: ledger.Mutator,
	}
	if storages != nil && storages.SnapshotRepository != nil {
		deps.Snapshots = storages.SnapshotRepository
	}

	board, err := NewBoard(NewBoardConfig(ledger.Author, cfg.Workers), deps, logger.WithComponent("board"))
	if err != nil {
		return nil, err
	}

	return &ClientServices{
		Board:           board,
		NotificationJob: NewNotificationJob(ledger.Notifier, board, cfg.Workers.ResubscribeDelay, logger.WithComponent("notifications")),
	}, nil
}
