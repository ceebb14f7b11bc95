// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains message strings shared by the ledger server handlers
// and middleware, so API responses use the same wording everywhere.
package app

const (
	// MsgInvalidJSON is returned when a request body is not valid JSON.
	MsgInvalidJSON = "invalid JSON was passed"

	// MsgMissingHash is returned when a write arrives without the
	// HashSHA256 header.
	MsgMissingHash = "missing HashSHA256 header"

	// MsgIntegrityCheckFailed is returned when the HashSHA256 header does
	// not match the request body.
	MsgIntegrityCheckFailed = "integrity check failed"

	// MsgInvalidGzip is returned when a gzip encoded body cannot be read.
	MsgInvalidGzip = "invalid gzip body"

	// MsgListNotesFailed is returned when the board cannot be read.
	MsgListNotesFailed = "error listing notes"

	// MsgInternalServerError replaces error details the client cannot act on.
	MsgInternalServerError = "internal server error"
)
