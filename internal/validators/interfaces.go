// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks notes and note requests before they reach the
// ledger.
//
// Rules live in `validate` struct tags on the models and are enforced with
// go-playground/validator. Failures come back as [FieldErrors] with English
// messages, wrapped in a sentinel such as [ErrInvalidNote] so callers can
// match them with errors.Is.
package validators

import "context"

// Validator validates an input value, optionally restricted to the named
// fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
