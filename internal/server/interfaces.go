package server

// Server defines the lifecycle contract of the ledger server.
//
// RunServer blocks until a stop signal arrives or the listener fails, and
// shuts everything down before returning.
type Server interface {
	RunServer() error

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
