package service

import (
	"context"

	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/logger"
)

// appInfoService reports the version the ledger server was started with.
type appInfoService struct {
	version string
}

func NewAppInfoService(cfg *config.ServerConfig, log *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}
	log.Info().Str("func", "NewAppInfoService").Str("version", cfg.Version).Msg("ledger server version")
	return &appInfoService{version: cfg.Version}, nil
}

func (s *appInfoService) GetAppVersion(context.Context) string {
	return s.version
}
