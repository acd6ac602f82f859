// SPDX-License-Identifier: MIT

// Package store is the system-of-record for the pipeline's entities
// (§3 of the orchestrator's data model): feeds, articles, groups,
// collections, episodes, audio files, and collection snapshots.
package store

import (
	"context"
	"errors"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
)

var ErrNotFound = errors.New("store: not found")

// Store aggregates the entity repositories the orchestrator depends on.
// A single implementation backs all of them so a sqlite-backed Store can
// share one *sql.DB and one transaction boundary per write.
type Store interface {
	Feeds
	Articles
	Groups
	Collections
	Episodes
	Close() error
}

type Feeds interface {
	PutFeed(ctx context.Context, f *model.Feed) error
	GetFeed(ctx context.Context, id ids.ID) (*model.Feed, error)
	ListActiveFeeds(ctx context.Context) ([]*model.Feed, error)
}

type Articles interface {
	PutArticle(ctx context.Context, a *model.Article) error
	GetArticle(ctx context.Context, id ids.ID) (*model.Article, error)
	// UpdateArticle applies fn to the current record under a lock and
	// persists the result, giving the review cascade (C4) a single-writer
	// update path per article.
	UpdateArticle(ctx context.Context, id ids.ID, fn func(*model.Article) error) (*model.Article, error)
	// ListUnassigned returns articles with no CollectionID whose feed is one
	// of feedIDs; tags are not filtered on.
	ListUnassigned(ctx context.Context, feedIDs []ids.ID) ([]*model.Article, error)
}

type Groups interface {
	PutGroup(ctx context.Context, g *model.Group) error
	GetGroup(ctx context.Context, id ids.ID) (*model.Group, error)
	ListGroups(ctx context.Context) ([]*model.Group, error)
}

type Collections interface {
	PutCollection(ctx context.Context, c *model.Collection) error
	GetCollection(ctx context.Context, id ids.ID) (*model.Collection, error)
	// GetOpenCollection returns a BUILDING or READY collection for a group,
	// if any. When the group has both, which one is returned is not defined.
	GetOpenCollection(ctx context.Context, groupID ids.ID) (*model.Collection, error)
	// GetBuildingCollection returns the group's BUILDING collection, if
	// any, for the Collection Builder (C5) to append new articles to.
	GetBuildingCollection(ctx context.Context, groupID ids.ID) (*model.Collection, error)
	// GetReadyCollection returns the group's READY collection, if any, for
	// the Episode Orchestrator (C7) to select at generation start.
	GetReadyCollection(ctx context.Context, groupID ids.ID) (*model.Collection, error)
	// ListReady returns all READY collections across groups.
	ListReady(ctx context.Context) ([]*model.Collection, error)
	PutSnapshot(ctx context.Context, s *model.Snapshot) error
	GetSnapshot(ctx context.Context, id ids.ID) (*model.Snapshot, error)
}

type Episodes interface {
	PutEpisode(ctx context.Context, e *model.Episode) error
	GetEpisode(ctx context.Context, id ids.ID) (*model.Episode, error)
	// ListGenerating returns episodes stuck in GENERATING, used by the
	// reaper sweep to detect leases whose owner crashed mid-run.
	ListGenerating(ctx context.Context) ([]*model.Episode, error)
	PutAudioFile(ctx context.Context, a *model.AudioFile) error
}
