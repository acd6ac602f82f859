// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
)

// Lease is the coordination-store record backing the Group Lease Manager
// (C2): one per group at most, held by a single owner token until release
// or expiry.
type Lease struct {
	GroupID    ids.ID
	OwnerToken string
	AcquiredAt time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the lease is past its expiry at the given time.
func (l *Lease) Expired(at time.Time) bool {
	return !l.ExpiresAt.After(at)
}

// FingerprintEntry is one unique-content record within the fingerprint
// window (C1).
type FingerprintEntry struct {
	Hash      string
	FirstSeen time.Time
	ExpiresAt time.Time
}
