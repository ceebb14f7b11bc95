package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/events"
	"github.com/MKhiriev/sticky-chain/internal/handler"
	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/server"
	"github.com/MKhiriev/sticky-chain/internal/service"
	"github.com/MKhiriev/sticky-chain/internal/store"
	"github.com/MKhiriev/sticky-chain/internal/utils"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("sticky-chain-server")
	cfg, err := config.GetServerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	logger.SetLevel(cfg.LogLevel)
	if cfg.Version == "" {
		cfg.Version = buildVersion
	}

	if cfg.HashKey != "" {
		utils.InitHasherPool(cfg.HashKey)
	}

	storages, err := store.NewStorages(context.Background(), cfg.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	evts := events.New()

	services, err := service.NewServices(storages, evts, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, evts, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, evts, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		storages.Close()
		os.Exit(1)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
