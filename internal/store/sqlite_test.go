// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_ArticleRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	a := &model.Article{
		ID:          ids.New(),
		FeedID:      ids.New(),
		Title:       "Title",
		URL:         "https://example.com/a",
		Content:     "body",
		PublishedAt: time.Now().UTC().Truncate(time.Second),
		Fingerprint: "abc123",
		ReviewTier:  model.ReviewLight,
		ReviewState: model.ReviewStateAcceptedLight,
		Tags:        []string{"news", "tech"},
		Summary:     "a summary",
		Confidence:  0.9,
	}
	require.NoError(t, s.PutArticle(ctx, a))

	got, err := s.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.Title, got.Title)
	require.Equal(t, a.Tags, got.Tags)
	require.True(t, got.CollectionID.Empty())
	require.Equal(t, a.PublishedAt.Unix(), got.PublishedAt.Unix())
}

func TestSQLiteStore_ListUnassignedFiltersByFeedAndCollection(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	feedA, feedB := ids.New(), ids.New()
	a1 := &model.Article{ID: ids.New(), FeedID: feedA, Title: "a1"}
	a2 := &model.Article{ID: ids.New(), FeedID: feedB, Title: "a2"}
	a3 := &model.Article{ID: ids.New(), FeedID: feedA, Title: "a3", CollectionID: ids.New()}
	require.NoError(t, s.PutArticle(ctx, a1))
	require.NoError(t, s.PutArticle(ctx, a2))
	require.NoError(t, s.PutArticle(ctx, a3))

	out, err := s.ListUnassigned(ctx, []ids.ID{feedA})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "a1", out[0].Title)
}

func TestSQLiteStore_UpdateArticleIsSingleWriter(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	a := &model.Article{ID: ids.New(), FeedID: ids.New(), Title: "t"}
	require.NoError(t, s.PutArticle(ctx, a))

	updated, err := s.UpdateArticle(ctx, a.ID, func(art *model.Article) error {
		art.ReviewState = model.ReviewStateAcceptedHeavy
		art.Confidence = 0.6
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, model.ReviewStateAcceptedHeavy, updated.ReviewState)

	got, err := s.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, model.ReviewStateAcceptedHeavy, got.ReviewState)
	require.InDelta(t, 0.6, got.Confidence, 0.0001)
}

func TestSQLiteStore_CollectionOpenInvariant(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	groupID := ids.New()
	c := &model.Collection{ID: ids.New(), GroupID: groupID, Status: model.CollectionBuilding}
	require.NoError(t, s.PutCollection(ctx, c))

	open, err := s.GetOpenCollection(ctx, groupID)
	require.NoError(t, err)
	require.NotNil(t, open)
	require.Equal(t, c.ID, open.ID)

	c.Status = model.CollectionReady
	c.ArticleIDs = []ids.ID{ids.New(), ids.New()}
	require.NoError(t, s.PutCollection(ctx, c))

	ready, err := s.ListReady(ctx)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	require.Len(t, ready[0].ArticleIDs, 2)
}

func TestSQLiteStore_GroupRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	g := &model.Group{
		ID:            ids.New(),
		Name:          "Morning Brief",
		PresenterIDs:  []string{"p1", "p2"},
		WriterID:      "w1",
		FeedIDs:       []ids.ID{ids.New()},
		TagFilter:     []string{"tech"},
		MinArticles:   5,
		CadenceBucket: model.CadenceHigh,
	}
	require.NoError(t, s.PutGroup(ctx, g))

	got, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, g.Name, got.Name)
	require.Equal(t, g.PresenterIDs, got.PresenterIDs)
	require.Equal(t, g.WriterID, got.WriterID)
	require.Equal(t, model.CadenceHigh, got.CadenceBucket)
}

func TestSQLiteStore_EpisodeAndAudioFile(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	e := &model.Episode{ID: ids.New(), GroupID: ids.New(), Status: model.EpisodeGenerating}
	require.NoError(t, s.PutEpisode(ctx, e))

	generating, err := s.ListGenerating(ctx)
	require.NoError(t, err)
	require.Len(t, generating, 1)

	e.Status = model.EpisodeCompleted
	require.NoError(t, s.PutEpisode(ctx, e))

	audio := &model.AudioFile{ID: ids.New(), EpisodeID: e.ID, URL: "https://cdn/ep.mp3", Format: model.AudioMP3}
	require.NoError(t, s.PutAudioFile(ctx, audio))

	generating, err = s.ListGenerating(ctx)
	require.NoError(t, err)
	require.Len(t, generating, 0)
}
