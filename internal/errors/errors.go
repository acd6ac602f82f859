// SPDX-License-Identifier: MIT

// Package errors classifies orchestrator errors into the four kinds from
// the error handling design: Transient, Semantic, Capacity, Fatal. Call
// sites branch on Kind rather than matching error strings.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for retry/propagation decisions.
type Kind string

const (
	// KindTransient covers timeouts and connection resets; retried with
	// backoff at the call site.
	KindTransient Kind = "transient"
	// KindSemantic covers malformed responses, unmet thresholds, missing
	// input; never retried, surfaced as-is.
	KindSemantic Kind = "semantic"
	// KindCapacity covers queue-full and lease-held conditions; returned
	// to the caller as a structured busy signal.
	KindCapacity Kind = "capacity"
	// KindFatal covers persistence failure after retries and unhandled
	// exceptions; the owning entity is marked FAILED and resources released.
	KindFatal Kind = "fatal"
)

// Error wraps an underlying error with a Kind and an optional reason code
// used in Episode.FAILED/status payloads.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error.
func New(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

// Transient wraps err as a transient error.
func Transient(err error) *Error { return New(KindTransient, "", err) }

// Semantic wraps err as a semantic error with a reason code.
func Semantic(reason string, err error) *Error { return New(KindSemantic, reason, err) }

// Capacity wraps err as a capacity error with a reason code.
func Capacity(reason string, err error) *Error { return New(KindCapacity, reason, err) }

// Fatal wraps err as a fatal error with a reason code.
func Fatal(reason string, err error) *Error { return New(KindFatal, reason, err) }

// KindOf extracts the Kind of err, defaulting to KindFatal for unclassified
// errors so unexpected failures fail closed rather than being retried
// forever.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindFatal
}

// ReasonOf extracts the reason code of err, if any.
func ReasonOf(err error) string {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Reason
	}
	return ""
}

// Sentinel reason codes referenced by multiple components.
const (
	ReasonInsufficientContent = "INSUFFICIENT_CONTENT"
	ReasonLeaseHeld           = "LEASE_HELD"
	ReasonGenerationFailed    = "GENERATION_FAILED"
)
