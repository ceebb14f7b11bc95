package overlay

import (
	"fmt"
	"time"
)

// Config tunes the heuristic that pairs a pending create with the
// authoritative note it produced.
type Config struct {
	// MatchWindow is the largest accepted distance between the remote
	// timestamp and the local creation time.
	MatchWindow time.Duration
	// PositionTolerance is the largest accepted per-axis distance in world units.
	PositionTolerance float64
	// GracePeriod is how long an entry may stay unmatched before it is flagged stale.
	GracePeriod time.Duration
}

func DefaultConfig() Config {
	return Config{
		MatchWindow:       10 * time.Minute,
		PositionTolerance: 1,
		GracePeriod:       2 * time.Minute,
	}
}

func (c Config) validate() error {
	if c.MatchWindow <= 0 {
		return fmt.Errorf("%w: match window must be positive", ErrInvalidConfig)
	}
	if c.PositionTolerance < 0 {
		return fmt.Errorf("%w: position tolerance must not be negative", ErrInvalidConfig)
	}
	if c.GracePeriod <= 0 {
		return fmt.Errorf("%w: grace period must be positive", ErrInvalidConfig)
	}
	return nil
}
