// SPDX-License-Identifier: MIT

package collection

import (
	"context"
	"testing"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
	"github.com/elroyic/Podcast-Generator-sub001/internal/store"
	"github.com/stretchr/testify/require"
)

func newGroup(feedID ids.ID, minArticles int) *model.Group {
	return &model.Group{
		ID:          ids.New(),
		Name:        "test-group",
		FeedIDs:     []ids.ID{feedID},
		MinArticles: minArticles,
	}
}

func TestAssign_TransitionsToReadyAtThreshold(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	feedID := ids.New()
	group := newGroup(feedID, 2)
	require.NoError(t, st.PutGroup(ctx, group))

	b := New(st, st)

	for i := 0; i < 2; i++ {
		article := &model.Article{ID: ids.New(), FeedID: feedID}
		require.NoError(t, st.PutArticle(ctx, article))
		require.NoError(t, b.Assign(ctx, article))
	}

	ready, err := st.GetReadyCollection(ctx, group.ID)
	require.NoError(t, err)
	require.NotNil(t, ready)
	require.Equal(t, model.CollectionReady, ready.Status)
	require.Equal(t, 2, ready.ItemCount())
}

func TestAssign_StaysBuildingBelowThreshold(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	feedID := ids.New()
	group := newGroup(feedID, 3)
	require.NoError(t, st.PutGroup(ctx, group))

	b := New(st, st)
	article := &model.Article{ID: ids.New(), FeedID: feedID}
	require.NoError(t, st.PutArticle(ctx, article))
	require.NoError(t, b.Assign(ctx, article))

	building, err := st.GetBuildingCollection(ctx, group.ID)
	require.NoError(t, err)
	require.NotNil(t, building)
	require.Equal(t, 1, building.ItemCount())

	ready, err := st.GetReadyCollection(ctx, group.ID)
	require.NoError(t, err)
	require.Nil(t, ready)
}

func TestAssign_NewArticlesAccumulateInFreshBuildingWhileReadyExists(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	feedID := ids.New()
	group := newGroup(feedID, 1)
	require.NoError(t, st.PutGroup(ctx, group))

	b := New(st, st)

	first := &model.Article{ID: ids.New(), FeedID: feedID}
	require.NoError(t, st.PutArticle(ctx, first))
	require.NoError(t, b.Assign(ctx, first))

	ready, err := st.GetReadyCollection(ctx, group.ID)
	require.NoError(t, err)
	require.NotNil(t, ready)

	second := &model.Article{ID: ids.New(), FeedID: feedID}
	require.NoError(t, st.PutArticle(ctx, second))
	require.NoError(t, b.Assign(ctx, second))

	building, err := st.GetBuildingCollection(ctx, group.ID)
	require.NoError(t, err)
	require.NotNil(t, building)
	require.Equal(t, 1, building.ItemCount())
	require.NotEqual(t, ready.ID, building.ID)
}

func TestAssign_NoFilterMatchesEveryTag(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	feedID := ids.New()
	group := newGroup(feedID, 1)
	require.NoError(t, st.PutGroup(ctx, group))

	b := New(st, st)
	article := &model.Article{ID: ids.New(), FeedID: feedID, Tags: []string{"anything"}}
	require.NoError(t, st.PutArticle(ctx, article))
	require.NoError(t, b.Assign(ctx, article))

	got, err := st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	require.True(t, got.HasCollection())
}

func TestAssign_AlreadyAssignedArticleIsNoop(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	feedID := ids.New()
	group := newGroup(feedID, 5)
	require.NoError(t, st.PutGroup(ctx, group))

	b := New(st, st)
	article := &model.Article{ID: ids.New(), FeedID: feedID, CollectionID: ids.New()}
	require.NoError(t, st.PutArticle(ctx, article))
	require.NoError(t, b.Assign(ctx, article))

	building, err := st.GetBuildingCollection(ctx, group.ID)
	require.NoError(t, err)
	require.Nil(t, building)
}
