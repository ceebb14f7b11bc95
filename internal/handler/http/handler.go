package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/events"
	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/service"
	"github.com/gorilla/websocket"
)

const defaultPingInterval = 15 * time.Second

type Handler struct {
	services *service.Services
	events   *events.Events

	upgrader     websocket.Upgrader
	pingInterval time.Duration

	// checkHashes enables the HMAC middleware on write routes.
	checkHashes    bool
	requestTimeout time.Duration

	logger *logger.Logger
}

// NewHandler creates the HTTP handler. When cfg carries a hash key, writes
// must send a valid HashSHA256 header; the hasher pool has to be
// initialised by the caller.
func NewHandler(services *service.Services, evts *events.Events, cfg *config.ServerConfig, logger *logger.Logger) *Handler {
	checkHashes := cfg.HashKey != ""
	logger.Info().Bool("check_hashes", checkHashes).Msg("http handler created")
	return &Handler{
		services: services,
		events:   evts,
		upgrader: websocket.Upgrader{
			// the change feed carries no secrets and is read by CLI clients
			CheckOrigin: func(*http.Request) bool { return true },
		},
		pingInterval:   defaultPingInterval,
		checkHashes:    checkHashes,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}
}
