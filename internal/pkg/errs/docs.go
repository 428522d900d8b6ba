// Package errs provides the typed error taxonomy for the parcel tracking
// application. Every failure surfaced by the core unwraps to exactly one
// sentinel, so callers classify errors with errors.Is instead of string
// matching.
//
// Each error kind follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrInvalidTransition)
//   - A struct type carrying the error details
//   - Constructor functions with and without an underlying cause
//   - Error() for the formatted message
//   - Unwrap() returning the sentinel
//
// The taxonomy distinguishes caller-correctable failures (not found, invalid
// value, forbidden, invalid transition, blocked) from transient ones
// (concurrency conflict, storage unavailable); IsRetryable reports the
// difference. Stack traces and internal detail are never part of the message
// contract.
package errs
