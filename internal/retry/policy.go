// Package retry holds the bounded exponential backoff policy consumed by the
// remote note source. The policy only does bookkeeping. Scheduling the next
// attempt is the caller's job.
package retry

import (
	"errors"
	"fmt"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

var ErrInvalidPolicy = errors.New("invalid retry policy")

// Policy tracks consecutive failures and yields delays base, 2*base, 4*base
// and so on, capped at ceiling. After maxAttempts consecutive failures the
// policy is exhausted until Reset.
type Policy struct {
	maxAttempts int
	baseDelay   time.Duration
	ceiling     time.Duration

	attempt int
	backoff goretry.Backoff
}

// NewPolicy validates the parameters and returns a policy at attempt zero.
func NewPolicy(maxAttempts int, baseDelay, ceiling time.Duration) (*Policy, error) {
	switch {
	case maxAttempts < 1:
		return nil, fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidPolicy, maxAttempts)
	case baseDelay <= 0:
		return nil, fmt.Errorf("%w: base delay must be positive, got %s", ErrInvalidPolicy, baseDelay)
	case ceiling < baseDelay:
		return nil, fmt.Errorf("%w: ceiling %s is below base delay %s", ErrInvalidPolicy, ceiling, baseDelay)
	}

	p := &Policy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		ceiling:     ceiling,
	}
	p.Reset()
	return p, nil
}

// Failure records one failed attempt. It returns the backoff delay for the
// failure and whether another attempt may be scheduled. The delay is
// reported even when retry is false so callers can surface it.
func (p *Policy) Failure() (delay time.Duration, retry bool) {
	p.attempt++
	delay, _ = p.backoff.Next()
	return delay, p.attempt < p.maxAttempts
}

// Reset forgets previous failures. Called on success and on every trigger
// that is not itself a retry.
func (p *Policy) Reset() {
	p.attempt = 0
	p.backoff = goretry.WithCappedDuration(p.ceiling, goretry.NewExponential(p.baseDelay))
}

// Attempt returns the number of consecutive failures so far.
func (p *Policy) Attempt() int {
	return p.attempt
}

// Exhausted reports whether no more automatic attempts are allowed.
func (p *Policy) Exhausted() bool {
	return p.attempt >= p.maxAttempts
}

func (p *Policy) MaxAttempts() int {
	return p.maxAttempts
}
