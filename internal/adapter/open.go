package adapter

import (
	"context"
	"fmt"

	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/logger"
)

// Ledger bundles the collaborators of the configured ledger. Mutator and
// Notifier are nil when the ledger cannot provide them.
type Ledger struct {
	Reader   NoteReader
	Writer   NoteWriter
	Mutator  NoteMutator
	Notifier ChangeNotifier

	// Author is derived from the signing key in chain mode,
	// taken from the configuration otherwise.
	Author string

	close func()
}

// Close releases the ledger connection, if any.
func (l *Ledger) Close() {
	if l.close != nil {
		l.close()
	}
}

// Open builds the ledger selected by cfg.Adapter.Mode.
func Open(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*Ledger, error) {
	log = log.WithComponent("adapter")
	log.Info().Str("func", "adapter.Open").Str("mode", cfg.Adapter.Mode).Msg("opening ledger")

	switch cfg.Adapter.Mode {
	case config.ModeLedger:
		a, err := NewLedgerAdapter(cfg.Adapter, cfg.App, log)
		if err != nil {
			return nil, err
		}
		return &Ledger{Reader: a, Writer: a, Mutator: a, Notifier: a, Author: cfg.App.Author}, nil

	case config.ModeChain:
		a, closeFn, err := NewChainAdapter(ctx, cfg.Adapter.Chain, log)
		if err != nil {
			return nil, err
		}
		return &Ledger{Reader: a, Writer: a, Notifier: a, Author: a.Author(), close: closeFn}, nil

	case config.ModeMemory:
		m := NewMemoryLedger(cfg.Adapter.Memory)
		return &Ledger{Reader: m, Writer: m, Mutator: m, Notifier: m, Author: cfg.App.Author}, nil
	}

	return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, cfg.Adapter.Mode)
}
