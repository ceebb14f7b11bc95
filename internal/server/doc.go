// Package server runs the ledger server's HTTP transport.
//
// It owns startup, signal handling and graceful shutdown, including closing
// the change feed so websocket subscribers are released.
package server
