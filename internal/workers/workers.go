package workers

import (
	"context"
	"sync"
)

// Workers starts and stops a fixed set of workers together.
type Workers struct {
	workers []Worker

	mu      sync.Mutex
	running bool
}

// New groups ws. Nil workers are skipped.
func New(ws ...Worker) *Workers {
	g := &Workers{}
	for _, w := range ws {
		if w != nil {
			g.workers = append(g.workers, w)
		}
	}
	return g
}

// Run starts every worker in order. Calling Run on a running group does nothing.
func (w *Workers) Run(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

// Stop stops the workers in reverse start order and waits for each.
func (w *Workers) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}

// Len reports how many workers the group holds.
func (w *Workers) Len() int {
	return len(w.workers)
}
