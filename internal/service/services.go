package service

import (
	"fmt"

	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/store"
	"github.com/MKhiriev/sticky-chain/internal/utils"
	"github.com/MKhiriev/sticky-chain/internal/validators"
)

type Services struct {
	NoteService    NoteService
	AppInfoService AppInfoService
}

// NewServices wires the ledger server services. Writes are validated before
// they reach the repository and announced on publisher afterwards.
func NewServices(storages *store.Storages, publisher EventPublisher, cfg *config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg, logger)
	if err != nil {
		return nil, err
	}

	validator, err := validators.NewNoteValidator()
	if err != nil {
		return nil, fmt.Errorf("error creating validator: %w", err)
	}

	notes := NewNoteService(storages.NoteRepository, publisher, utils.NewUUIDGenerator(), logger)

	return &Services{
		NoteService:    NewNoteValidationService(validator).Wrap(notes),
		AppInfoService: appInfo,
	}, nil
}
