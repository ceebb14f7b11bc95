package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	Author   string
	HashKey  string
	LogLevel string
	LogFile  string
}

// ClientAdapter holds the ledger selection and its transport settings.
type ClientAdapter struct {
	Mode           string
	HTTPAddress    string
	RequestTimeout time.Duration
	Chain          Chain
	Memory         Memory
}

// ClientStorage holds the local snapshot cache location.
type ClientStorage struct {
	// CacheDSN is empty when the cache is disabled.
	CacheDSN string
}

// ClientConfig is the board client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers Workers
}

// GetClientConfig builds and validates the client view of the merged
// configuration. args are the command-line arguments without the program name.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			Author:   cfg.App.Author,
			HashKey:  cfg.App.HashKey,
			LogLevel: cfg.App.LogLevel,
			LogFile:  cfg.App.LogFile,
		},
		Adapter: ClientAdapter{
			Mode:           cfg.Adapter.Mode,
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			Chain:          cfg.Adapter.Chain,
			Memory:         cfg.Adapter.Memory,
		},
		Storage: ClientStorage{CacheDSN: cfg.Storage.Cache.DSN},
		Workers: cfg.Workers,
	}
}
