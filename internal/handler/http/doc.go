// Package http implements the REST and websocket transport of the ledger
// server.
//
// It wires the note routes, the change feed and the middleware chain
// (trace ids, access logging, gzip and HMAC integrity checks) in front of
// the service layer.
package http
