// SPDX-License-Identifier: MIT

// Package collection implements the Collection Builder (C5): it decides
// which groups are interested in a reviewed article and maintains the
// BUILDING/READY collection bookkeeping for each, per spec.md §4.5.
package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/elroyic/Podcast-Generator-sub001/internal/metrics"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
	"github.com/elroyic/Podcast-Generator-sub001/internal/store"
)

// Builder aggregates reviewed articles into group-scoped collections.
type Builder struct {
	Store  builderStore
	Groups store.Groups
}

// builderStore is the narrow slice of store.Collections/Articles Builder
// needs, named so tests can supply a smaller fake than the full Store.
type builderStore interface {
	GetBuildingCollection(ctx context.Context, groupID ids.ID) (*model.Collection, error)
	GetReadyCollection(ctx context.Context, groupID ids.ID) (*model.Collection, error)
	PutCollection(ctx context.Context, c *model.Collection) error
	UpdateArticle(ctx context.Context, id ids.ID, fn func(*model.Article) error) (*model.Article, error)
}

// New builds a Collection Builder over its collaborators.
func New(st builderStore, groups store.Groups) *Builder {
	return &Builder{Store: st, Groups: groups}
}

// Assign runs spec.md §4.5's algorithm for one accepted article: find the
// Groups interested in it (feed membership + any-of tag match) and append
// the article to the first interested Group's BUILDING collection,
// creating one if absent, transitioning it to READY once the threshold is
// met.
//
// An article's collection_id is written exactly once (spec.md §8
// "Single-writer per article"), so when more than one Group is interested
// the first one found wins; the data model's single CollectionID field
// per Article admits no other reading. A READY collection already present
// for a Group is left untouched — new articles keep accumulating in
// BUILDING until it is CONSUMED or EXPIRED (spec.md §4.5 point 4).
func (b *Builder) Assign(ctx context.Context, article *model.Article) error {
	logger := log.FromContext(ctx, "collection")

	if article.HasCollection() {
		return nil
	}

	groups, err := b.Groups.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	for _, g := range groups {
		if !g.InterestedIn(article.FeedID, article.Tags) {
			continue
		}
		if err := b.appendToGroup(ctx, g, article); err != nil {
			logger.Error().Str("group_id", g.ID.String()).Str("article_id", article.ID.String()).
				Err(err).Msg("failed to assign article to group collection")
			return err
		}
		return nil
	}
	return nil
}

func (b *Builder) appendToGroup(ctx context.Context, g *model.Group, article *model.Article) error {
	logger := log.FromContext(ctx, "collection")

	coll, err := b.Store.GetBuildingCollection(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("get building collection: %w", err)
	}
	if coll == nil {
		coll = &model.Collection{
			ID:        ids.New(),
			GroupID:   g.ID,
			Status:    model.CollectionBuilding,
			CreatedAt: time.Now(),
		}
	}

	coll.ArticleIDs = append(coll.ArticleIDs, article.ID)
	existingReady, err := b.Store.GetReadyCollection(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("get ready collection: %w", err)
	}
	if existingReady == nil && coll.ItemCount() >= g.MinArticlesOrDefault() {
		coll.Status = model.CollectionReady
		metrics.CollectionsBuiltTotal.WithLabelValues("ready").Inc()
		metrics.CollectionsReady.Inc()
		logger.Info().Str("group_id", g.ID.String()).Str("collection_id", coll.ID.String()).
			Int("item_count", coll.ItemCount()).Msg("collection reached threshold, marked READY")
	}

	if err := b.Store.PutCollection(ctx, coll); err != nil {
		return fmt.Errorf("put collection: %w", err)
	}

	if _, err := b.Store.UpdateArticle(ctx, article.ID, func(a *model.Article) error {
		a.CollectionID = coll.ID
		return nil
	}); err != nil {
		return fmt.Errorf("assign article to collection: %w", err)
	}
	return nil
}
