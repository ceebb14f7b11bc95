package config

import (
	"fmt"
	"time"
)

// ServerConfig is the ledger server configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	DSN            string
	HashKey        string
	Version        string
	LogLevel       string
}

// GetServerConfig builds and validates the server view of the merged
// configuration. args are the command-line arguments without the program name.
func GetServerConfig(args []string) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
		DSN:            cfg.Storage.DB.DSN,
		HashKey:        cfg.App.HashKey,
		Version:        cfg.App.Version,
		LogLevel:       cfg.App.LogLevel,
	}
	return serverCfg, serverCfg.validate()
}
