// Package common defines shared constants and sentinel errors used across
// the client and server layers of recallbox. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Remote store errors. ErrUnavailable covers network failures,
	// timeouts and backend 5xx responses; items hit by it stay pending
	// and are retried on the next sync cycle.
	ErrUnavailable = errors.New("remote store unavailable")

	// Validation errors.
	ErrInvalidCategory = errors.New("invalid category")
	ErrMalformedRow    = errors.New("malformed remote row")

	// Generator errors.
	ErrAPIKeyMissing = errors.New("api key not set")
	ErrRateLimited   = errors.New("rate limited")
)
