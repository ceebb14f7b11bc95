package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/adapter"
	"github.com/MKhiriev/sticky-chain/internal/logger"
	goretry "github.com/sethvargo/go-retry"
)

const (
	defaultResubscribeDelay = 2 * time.Second
	maxResubscribeDelay     = time.Minute
)

type notificationJob struct {
	notifier adapter.ChangeNotifier
	target   Notifiable
	delay    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewNotificationJob creates a job that forwards change signals from
// notifier to target. The job is idle until Start is called. A nil notifier
// makes Start a no-op and the board relies on polling alone.
func NewNotificationJob(notifier adapter.ChangeNotifier, target Notifiable, delay time.Duration, logger *logger.Logger) NotificationJob {
	if delay <= 0 {
		delay = defaultResubscribeDelay
	}
	return &notificationJob{
		notifier: notifier,
		target:   target,
		delay:    delay,
		logger:   logger,
	}
}

// Start implements NotificationJob. It stops any previously running job,
// then subscribes in the background. When the feed ends the job waits the
// resubscribe delay and subscribes again, backing off exponentially while
// Subscribe keeps failing.
func (j *notificationJob) Start(ctx context.Context) {
	if j.notifier == nil {
		return
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		j.run(jobCtx)
	}()
}

// Stop implements NotificationJob. It cancels the subscription and blocks
// until the background goroutine has exited. Safe to call when the job is
// not running.
func (j *notificationJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *notificationJob) run(ctx context.Context) {
	for first := true; ; first = false {
		signals, err := j.subscribe(ctx)
		if err != nil {
			return
		}

		// signals sent while we were not listening are lost
		if !first {
			j.target.Notify()
		}

		j.logger.Info().Str("func", "*notificationJob.run").Msg("change feed subscribed")
		if !j.forward(ctx, signals) {
			return
		}
		j.logger.Warn().
			Str("func", "*notificationJob.run").
			Dur("resubscribe_in", j.delay).
			Msg("change feed closed")

		select {
		case <-ctx.Done():
			return
		case <-time.After(j.delay):
		}
	}
}

// forward relays signals until the feed closes. It reports false when ctx
// ends first; feeds are not required to close on cancellation.
func (j *notificationJob) forward(ctx context.Context, signals <-chan struct{}) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-signals:
			if !ok {
				return ctx.Err() == nil
			}
			j.target.Notify()
		}
	}
}

// subscribe retries until it succeeds or ctx is done.
func (j *notificationJob) subscribe(ctx context.Context) (<-chan struct{}, error) {
	var signals <-chan struct{}
	backoff := goretry.WithCappedDuration(maxResubscribeDelay, goretry.NewExponential(j.delay))

	err := goretry.Do(ctx, backoff, func(ctx context.Context) error {
		ch, err := j.notifier.Subscribe(ctx)
		if err != nil {
			j.logger.Warn().Err(err).Str("func", "*notificationJob.subscribe").Msg("change feed subscription failed")
			return goretry.RetryableError(err)
		}
		signals = ch
		return nil
	})
	return signals, err
}
