// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
)

// CadenceBucket is a coarse classification of how often a group should
// publish, mapped to a minimum inter-episode interval by IntervalFor.
type CadenceBucket string

const (
	CadenceHigh   CadenceBucket = "HIGH"
	CadenceMedium CadenceBucket = "MEDIUM"
	CadenceLow    CadenceBucket = "LOW"
	CadenceManual CadenceBucket = "MANUAL"
)

// IntervalFor maps a cadence bucket to its minimum inter-episode interval.
// MANUAL never becomes eligible on its own; it returns a duration long
// enough that the "time since last episode" check never passes.
func IntervalFor(bucket CadenceBucket) time.Duration {
	switch bucket {
	case CadenceHigh:
		return 15 * time.Minute
	case CadenceMedium:
		return time.Hour
	case CadenceLow:
		return 6 * time.Hour
	default: // CadenceManual and unknown buckets
		return time.Duration(1<<63 - 1)
	}
}

// Group is a named show: a set of feeds, presenters, a writer, and the
// cadence/threshold policy governing when it is eligible for a new episode.
type Group struct {
	ID            ids.ID
	Name          string
	PresenterIDs  []string
	WriterID      string
	FeedIDs       []ids.ID
	TagFilter     []string // empty means "no filter" (any article matches)
	MinArticles   int
	CadenceBucket CadenceBucket
	LastEpisodeAt time.Time
}

// InterestedIn reports whether an article from feedID with the given tags
// is of interest to this group: the feed must be one of the group's feeds,
// and (if a tag filter is configured) at least one tag must match
// (any-of semantics per SPEC_FULL.md Open Question decision #3).
func (g *Group) InterestedIn(feedID ids.ID, tags []string) bool {
	if !g.hasFeed(feedID) {
		return false
	}
	if len(g.TagFilter) == 0 {
		return true
	}
	for _, want := range g.TagFilter {
		for _, got := range tags {
			if want == got {
				return true
			}
		}
	}
	return false
}

func (g *Group) hasFeed(feedID ids.ID) bool {
	for _, id := range g.FeedIDs {
		if id == feedID {
			return true
		}
	}
	return false
}

// MinArticlesOrDefault returns MinArticles, defaulting to 3 when unset.
func (g *Group) MinArticlesOrDefault() int {
	if g.MinArticles <= 0 {
		return 3
	}
	return g.MinArticles
}
