// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// validate checks the merged [StructuredConfig] for values that make no
// sense in any role. Role specific checks live on the client and server views.
func (cfg *StructuredConfig) validate() error {
	if cfg.Workers.MatchTolerance < 0 {
		return fmt.Errorf("%w: match tolerance must not be negative", ErrInvalidWorkerConfigs)
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	a := cfg.Adapter
	switch a.Mode {
	case ModeLedger:
		if a.HTTPAddress == "" || a.RequestTimeout <= 0 {
			return fmt.Errorf("%w: ledger mode needs an address and a request timeout", ErrInvalidAdapterConfigs)
		}
		if cfg.App.HashKey == "" {
			return fmt.Errorf("%w: ledger mode needs a hash key", ErrInvalidAppConfigs)
		}
	case ModeChain:
		if a.Chain.RPCURL == "" || a.Chain.PrivateKey == "" {
			return fmt.Errorf("%w: chain mode needs an rpc url and a private key", ErrInvalidAdapterConfigs)
		}
		if !common.IsHexAddress(a.Chain.Contract) {
			return fmt.Errorf("%w: contract %q is not a hex address", ErrInvalidAdapterConfigs, a.Chain.Contract)
		}
		if a.Chain.ReceiptPollInterval <= 0 {
			return fmt.Errorf("%w: receipt poll interval must be positive", ErrInvalidAdapterConfigs)
		}
	case ModeMemory:
		if a.Memory.Latency < 0 || a.Memory.FailEvery < 0 {
			return fmt.Errorf("%w: memory ledger settings must not be negative", ErrInvalidAdapterConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidAdapterConfigs, a.Mode)
	}

	// chain mode derives the author from the signing key
	if a.Mode != ModeChain && strings.TrimSpace(cfg.App.Author) == "" {
		return fmt.Errorf("%w: author is required", ErrInvalidAppConfigs)
	}

	w := cfg.Workers
	switch {
	case w.PollInterval < 0, w.FetchTimeout < 0, w.WriteTimeout < 0:
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidWorkerConfigs)
	case w.RetryMaxAttempts < 1:
		return fmt.Errorf("%w: retry max attempts must be positive", ErrInvalidWorkerConfigs)
	case w.RetryBaseDelay <= 0 || w.RetryCeiling < w.RetryBaseDelay:
		return fmt.Errorf("%w: retry delays must satisfy 0 < base <= ceiling", ErrInvalidWorkerConfigs)
	case w.PendingGrace <= 0 || w.MatchWindow <= 0:
		return fmt.Errorf("%w: pending grace and match window must be positive", ErrInvalidWorkerConfigs)
	case w.ResubscribeDelay <= 0:
		return fmt.Errorf("%w: resubscribe delay must be positive", ErrInvalidWorkerConfigs)
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.HTTPAddress == "" || cfg.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}
	if cfg.HashKey == "" {
		return ErrInvalidAppConfigs
	}
	return nil
}
