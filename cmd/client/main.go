package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/sticky-chain/internal/adapter"
	"github.com/MKhiriev/sticky-chain/internal/client"
	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/service"
	"github.com/MKhiriev/sticky-chain/internal/store"
	"github.com/MKhiriev/sticky-chain/internal/tui"
	"github.com/MKhiriev/sticky-chain/internal/workers"
	"github.com/MKhiriev/sticky-chain/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	// the terminal belongs to the UI, so logs go to a file
	log := logger.NewClientLogger("sticky-chain-client", cfg.App.LogFile)
	logger.SetLevel(cfg.App.LogLevel)

	if err = run(cfg, log); err != nil {
		log.Error().Err(err).Msg("client run error")
		fmt.Fprintf(os.Stderr, "client error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.ClientConfig, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, err := adapter.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer ledger.Close()

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("create snapshot cache: %w", err)
	}
	defer func() {
		if cerr := storages.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("close snapshot cache")
		}
	}()

	services, err := service.NewClientServices(cfg, ledger, storages, log)
	if err != nil {
		return fmt.Errorf("create client services: %w", err)
	}

	ui, err := tui.New(services.Board, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log.WithComponent("tui"))
	if err != nil {
		return fmt.Errorf("create ui: %w", err)
	}

	app, err := client.NewApp(services.Board, ui, workers.New(services.NotificationJob), log)
	if err != nil {
		return fmt.Errorf("init client app: %w", err)
	}

	return app.Run(ctx)
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
