// Package workers runs the background jobs of the client as one group.
package workers

import "context"

// Worker is a background job with an explicit lifecycle.
//
// Start must not block; implementations spawn their own goroutines and
// keep running until ctx is done or Stop is called. Stop blocks until the
// job has exited and must be safe to call more than once.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
