// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
)

// ReviewTier records which reviewer ultimately produced an Article's
// tags/summary/confidence.
type ReviewTier string

const (
	ReviewNone  ReviewTier = "NONE"
	ReviewLight ReviewTier = "LIGHT"
	ReviewHeavy ReviewTier = "HEAVY"
)

// ReviewState is the per-article state machine driven by the review
// cascade (C4). Terminal states write exactly one update to the Article row.
type ReviewState string

const (
	ReviewStateNone          ReviewState = "NONE"
	ReviewStateLightPending  ReviewState = "LIGHT_PENDING"
	ReviewStateHeavyPending  ReviewState = "HEAVY_PENDING"
	ReviewStateAcceptedLight ReviewState = "ACCEPTED_LIGHT"
	ReviewStateAcceptedHeavy ReviewState = "ACCEPTED_HEAVY"
	ReviewStateFailedFallback ReviewState = "FAILED_FALLBACK"
)

// Article is an ingested, deduplicated news item working its way through
// review and, eventually, collection assignment.
type Article struct {
	ID            ids.ID
	FeedID        ids.ID
	Title         string
	URL           string
	Content       string
	PublishedAt   time.Time
	Fingerprint   string
	ReviewTier    ReviewTier
	ReviewState   ReviewState
	Tags          []string
	Summary       string
	Confidence    float64
	CollectionID  ids.ID // empty until assigned by C5
	ProcessedAt   time.Time
}

// HasCollection reports whether the article has already been assigned to a
// collection (the collection_id write is made exactly once, never reset).
func (a *Article) HasCollection() bool {
	return !a.CollectionID.Empty()
}
