// SPDX-License-Identifier: MIT

package queue

import (
	"context"
	"testing"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/capability"
	"github.com/elroyic/Podcast-Generator-sub001/internal/collection"
	"github.com/elroyic/Podcast-Generator-sub001/internal/config"
	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/lease"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
	"github.com/elroyic/Podcast-Generator-sub001/internal/review"
	"github.com/elroyic/Podcast-Generator-sub001/internal/store"
	"github.com/stretchr/testify/require"
)

type fakeReviewer struct {
	resp capability.ReviewResponse
}

func (f *fakeReviewer) Review(context.Context, capability.ReviewRequest) (capability.ReviewResponse, error) {
	return f.resp, nil
}

func newTestWorker(t *testing.T) (*Worker, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	cascade := review.New(
		&fakeReviewer{resp: capability.ReviewResponse{Tags: []string{"tech"}, Confidence: 0.9}},
		&fakeReviewer{resp: capability.ReviewResponse{Tags: []string{"tech"}, Confidence: 0.9}},
		config.NewReviewerManager(config.ReviewerConfig{LightThreshold: 0.75, HeavyThreshold: 0.5, PauseBackoff: 10 * time.Millisecond}, ""),
	)
	builder := collection.New(st, st)
	leases := lease.NewMemoryManager()
	reviewer := config.NewReviewerManager(config.ReviewerConfig{LightThreshold: 0.75, HeavyThreshold: 0.5, PauseBackoff: 10 * time.Millisecond}, "")
	w := New(st, cascade, builder, leases, reviewer, 2, 10)
	return w, st
}

func TestProcess_ReviewsAndAssignsArticle(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()

	feedID := ids.New()
	group := &model.Group{ID: ids.New(), FeedIDs: []ids.ID{feedID}, MinArticles: 1}
	require.NoError(t, st.PutGroup(ctx, group))

	article := &model.Article{ID: ids.New(), FeedID: feedID}
	require.NoError(t, st.PutArticle(ctx, article))

	w.process(ctx, job{articleID: article.ID})

	got, err := st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	require.Equal(t, model.ReviewStateAcceptedLight, got.ReviewState)
	require.True(t, got.HasCollection())
}

func TestProcess_AlreadyReviewedArticleIsNoop(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()

	article := &model.Article{ID: ids.New(), ReviewState: model.ReviewStateAcceptedLight, Confidence: 0.9}
	require.NoError(t, st.PutArticle(ctx, article))

	w.process(ctx, job{articleID: article.ID})

	got, err := st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	require.Equal(t, 0.9, got.Confidence)
}

func TestDispatchLoop_PausesWhileLeaseHeld(t *testing.T) {
	w, st := newTestWorker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_, err := w.Leases.Acquire(ctx, "group-x", "owner-1", time.Hour)
	require.NoError(t, err)

	article := &model.Article{ID: ids.New(), ReviewState: model.ReviewStateNone}
	require.NoError(t, st.PutArticle(ctx, article))
	require.NoError(t, w.Enqueue(ctx, article.ID))

	w.dispatchLoop(ctx, 0)

	got, err := st.GetArticle(context.Background(), article.ID)
	require.NoError(t, err)
	require.Equal(t, model.ReviewStateNone, got.ReviewState)
}

func TestEnqueue_ReturnsCapacityErrorWhenFull(t *testing.T) {
	w, _ := newTestWorker(t)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, w.Enqueue(ctx, ids.New()))
	}
	err := w.Enqueue(ctx, ids.New())
	require.Error(t, err)
}
