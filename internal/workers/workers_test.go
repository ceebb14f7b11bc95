// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingWorker appends "start <id>" and "stop <id>" to a shared log.
type recordingWorker struct {
	id  string
	log *[]string
	ctx context.Context
}

func (r *recordingWorker) Start(ctx context.Context) {
	r.ctx = ctx
	*r.log = append(*r.log, "start "+r.id)
}

func (r *recordingWorker) Stop() {
	*r.log = append(*r.log, "stop "+r.id)
}

func TestWorkers_RunAndStopOrder(t *testing.T) {
	var log []string
	a := &recordingWorker{id: "a", log: &log}
	b := &recordingWorker{id: "b", log: &log}

	ws := New(a, nil, b)
	assert.Equal(t, 2, ws.Len())

	ctx := context.Background()
	ws.Run(ctx)
	ws.Stop()

	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
	assert.Equal(t, ctx, a.ctx)
}

func TestWorkers_RunIsIdempotent(t *testing.T) {
	var log []string
	ws := New(&recordingWorker{id: "a", log: &log})

	ws.Run(context.Background())
	ws.Run(context.Background())
	ws.Stop()
	ws.Stop()

	assert.Equal(t, []string{"start a", "stop a"}, log)
}

func TestWorkers_StopWithoutRun(t *testing.T) {
	var log []string
	ws := New(&recordingWorker{id: "a", log: &log})

	ws.Stop()
	assert.Empty(t, log)
}

func TestWorkers_Empty(t *testing.T) {
	ws := New()

	// should not panic on an empty group
	ws.Run(context.Background())
	ws.Stop()
	assert.Zero(t, ws.Len())
}
