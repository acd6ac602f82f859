// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
)

// CollectionStatus is the lifecycle of a group-scoped article collection.
type CollectionStatus string

const (
	CollectionBuilding CollectionStatus = "BUILDING"
	CollectionReady    CollectionStatus = "READY"
	CollectionConsumed CollectionStatus = "CONSUMED"
	CollectionExpired  CollectionStatus = "EXPIRED"
)

// Collection aggregates reviewed articles for one group until the group's
// minimum article threshold is met. At most one BUILDING and at most one
// READY collection exist per group at any instant (enforced by C5).
type Collection struct {
	ID         ids.ID
	GroupID    ids.ID
	Status     CollectionStatus
	ArticleIDs []ids.ID
	CreatedAt  time.Time
}

// ItemCount is the number of articles currently assigned to the collection.
func (c *Collection) ItemCount() int {
	return len(c.ArticleIDs)
}

// Snapshot is an immutable copy of a collection's article list, taken at
// Episode Orchestrator generation start (step 4). Identified separately
// from the Collection it was taken from so a CONSUMED collection's
// membership remains inspectable after the fact.
type Snapshot struct {
	ID           ids.ID
	CollectionID ids.ID
	GroupID      ids.ID
	ArticleIDs   []ids.ID
	TakenAt      time.Time
}
