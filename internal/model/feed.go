// SPDX-License-Identifier: MIT

// Package model holds the plain entity types of the data model. Entities
// never hold back-pointers to each other; cross-entity traversal always
// goes through a lookup by ID (see DESIGN NOTES, "Cyclic references").
package model

import (
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
)

// FeedKind identifies the wire format a feed is polled in.
type FeedKind string

const (
	FeedRSS  FeedKind = "RSS"
	FeedAtom FeedKind = "ATOM"
	FeedJSON FeedKind = "JSON"
)

// Feed is an external article source polled by the (out-of-scope) feed
// poller. Created by an admin; mutated only via LastPolledAt.
type Feed struct {
	ID           ids.ID
	SourceURL    string
	Kind         FeedKind
	Active       bool
	LastPolledAt time.Time
}
