// SPDX-License-Identifier: MIT

package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/fingerprint"
	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/store"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	enqueued []ids.ID
	err      error
}

func (f *fakeQueue) Enqueue(_ context.Context, articleID ids.ID) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, articleID)
	return nil
}

func TestSubmit_PersistsAndEnqueuesFreshArticle(t *testing.T) {
	st := store.NewMemoryStore()
	fp := fingerprint.NewMemoryStore(true)
	q := &fakeQueue{}
	in := New(st, fp, q, time.Hour)

	id, err := in.Submit(context.Background(), RawItem{
		FeedID:     ids.New(),
		RawTitle:   "Title One",
		RawURL:     "https://example.com/a",
		RawContent: "some article content",
	})
	require.NoError(t, err)
	require.False(t, id.Empty())
	require.Len(t, q.enqueued, 1)
	require.Equal(t, id, q.enqueued[0])

	article, err := st.GetArticle(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Title One", article.Title)
}

func TestSubmit_DuplicateIsDroppedSilently(t *testing.T) {
	st := store.NewMemoryStore()
	fp := fingerprint.NewMemoryStore(true)
	q := &fakeQueue{}
	in := New(st, fp, q, time.Hour)

	item := RawItem{
		FeedID:     ids.New(),
		RawTitle:   "Same Title",
		RawURL:     "https://example.com/b",
		RawContent: "identical content",
	}
	_, err := in.Submit(context.Background(), item)
	require.NoError(t, err)

	_, err = in.Submit(context.Background(), item)
	require.ErrorIs(t, err, ErrDuplicate)
	require.Len(t, q.enqueued, 1)
}

func TestSubmit_EnqueueFailureStillReturnsArticleID(t *testing.T) {
	st := store.NewMemoryStore()
	fp := fingerprint.NewMemoryStore(true)
	q := &fakeQueue{err: errors.New("queue unavailable")}
	in := New(st, fp, q, time.Hour)

	id, err := in.Submit(context.Background(), RawItem{
		FeedID:     ids.New(),
		RawTitle:   "Queue Down",
		RawURL:     "https://example.com/c",
		RawContent: "content",
	})
	require.Error(t, err)
	require.False(t, id.Empty())

	_, getErr := st.GetArticle(context.Background(), id)
	require.NoError(t, getErr)
}
