// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run(ctx context.Context) error
}

// Board is the lifecycle of the board service.
type Board interface {
	Start(ctx context.Context) error
	Close()
}

// UI blocks while the user works with the board.
type UI interface {
	Run(ctx context.Context) error
}
