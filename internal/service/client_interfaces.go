package service

import "context"

// Notifiable receives ledger change signals. It must not block.
type Notifiable interface {
	Notify()
}

// NotificationJob is a background worker that keeps a change feed
// subscription alive and forwards its signals to the board.
type NotificationJob interface {
	// Start subscribes in the background until ctx is done or Stop is called.
	Start(ctx context.Context)

	// Stop cancels the subscription and waits for the worker to exit.
	Stop()
}
