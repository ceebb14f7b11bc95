package server

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/events"
	"github.com/MKhiriev/sticky-chain/internal/handler"
	"github.com/MKhiriev/sticky-chain/internal/logger"
)

type server struct {
	httpServer *httpServer
	events     *events.Events

	shutdownOnce sync.Once
	logger       *logger.Logger
}

func NewServer(handlers *handler.Handlers, evts *events.Events, cfg *config.ServerConfig, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg.HTTPAddress, logger),
		events:     evts,
		logger:     logger,
	}, nil
}

func (s *server) RunServer() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	return s.run(ctx)
}

// Shutdown closes the change feed first: http.Server.Shutdown does not wait
// for hijacked websocket connections, so their handlers are told to leave.
func (s *server) Shutdown() {
	s.shutdownOnce.Do(func() {
		if s.events != nil {
			s.events.Shutdown()
		}
		s.httpServer.Shutdown()
	})
}

func (s *server) run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Msg("Launching HTTP server")
		errCh <- s.httpServer.RunServer()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("stop signal received")
		s.Shutdown()
		<-errCh
	case err := <-errCh:
		s.Shutdown()
		if err != nil {
			s.logger.Err(err).Msg("HTTP server stopped")
			return err
		}
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}
