// SPDX-License-Identifier: MIT

// Package lease implements the Group Lease Manager (C2): a global,
// advisory, expiring mutex per group, reentrant only for the owner token
// that holds it.
package lease

import (
	"context"
	"time"
)

// Result is the outcome of an acquire attempt.
type Result int

const (
	Acquired Result = iota
	HeldByOther
)

// ReleaseResult is the outcome of a release attempt.
type ReleaseResult int

const (
	Released ReleaseResult = iota
	NotOwner
	Absent
)

// Status describes the current holder of a group's lease, if any.
type Status struct {
	Held      bool
	Holder    string
	ExpiresAt time.Time
}

// Manager is the C2 contract.
type Manager interface {
	// Acquire performs an atomic insert-if-absent with the given ttl. A
	// second acquire by the same ownerToken extends the TTL and also
	// reports Acquired (reentrant-by-owner).
	Acquire(ctx context.Context, groupID, ownerToken string, ttl time.Duration) (Result, error)
	// Release removes the lease iff ownerToken currently holds it.
	Release(ctx context.Context, groupID, ownerToken string) (ReleaseResult, error)
	// Status reports the current holder of groupID's lease, if any.
	Status(ctx context.Context, groupID string) (Status, error)
	// AnyActive reports whether any group currently has a held lease, used
	// by the Review Queue Worker (C8) to decide whether to pause.
	AnyActive(ctx context.Context) (bool, error)
}

// clock abstracts time for deterministic tests.
type clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
