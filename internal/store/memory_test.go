// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetArticleNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.GetArticle(ctx, ids.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_PutCopiesSoCallerMutationDoesNotLeak(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a := &model.Article{ID: ids.New(), Title: "original"}
	require.NoError(t, s.PutArticle(ctx, a))
	a.Title = "mutated after put"

	got, err := s.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "original", got.Title)
}

func TestMemoryStore_GetOpenCollectionIgnoresConsumed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	groupID := ids.New()

	c := &model.Collection{ID: ids.New(), GroupID: groupID, Status: model.CollectionConsumed}
	require.NoError(t, s.PutCollection(ctx, c))

	open, err := s.GetOpenCollection(ctx, groupID)
	require.NoError(t, err)
	require.Nil(t, open)
}
