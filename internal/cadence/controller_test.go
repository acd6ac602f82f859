// SPDX-License-Identifier: MIT

package cadence

import (
	"context"
	"testing"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/lease"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
	"github.com/elroyic/Podcast-Generator-sub001/internal/store"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	enqueued []ids.ID
}

func (f *fakeDispatcher) Enqueue(_ context.Context, groupID ids.ID, _ bool) error {
	f.enqueued = append(f.enqueued, groupID)
	return nil
}

func TestEligible_ReadyAtThresholdNoLeaseNoPriorEpisode(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	leases := lease.NewMemoryManager()

	group := &model.Group{ID: ids.New(), MinArticles: 3, CadenceBucket: model.CadenceHigh}
	require.NoError(t, st.PutGroup(ctx, group))
	require.NoError(t, st.PutCollection(ctx, &model.Collection{
		ID: ids.New(), GroupID: group.ID, Status: model.CollectionReady,
		ArticleIDs: []ids.ID{ids.New(), ids.New(), ids.New()},
	}))

	c := New(st, st, leases, &fakeDispatcher{}, time.Second)
	eligible, err := c.Eligible(ctx, group)
	require.NoError(t, err)
	require.True(t, eligible)
}

func TestEligible_FalseWhenBelowThreshold(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	leases := lease.NewMemoryManager()

	group := &model.Group{ID: ids.New(), MinArticles: 3, CadenceBucket: model.CadenceHigh}
	require.NoError(t, st.PutGroup(ctx, group))
	require.NoError(t, st.PutCollection(ctx, &model.Collection{
		ID: ids.New(), GroupID: group.ID, Status: model.CollectionReady,
		ArticleIDs: []ids.ID{ids.New(), ids.New()},
	}))

	c := New(st, st, leases, &fakeDispatcher{}, time.Second)
	eligible, err := c.Eligible(ctx, group)
	require.NoError(t, err)
	require.False(t, eligible)
}

func TestEligible_FalseWhenLeaseHeld(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	leases := lease.NewMemoryManager()

	group := &model.Group{ID: ids.New(), MinArticles: 1, CadenceBucket: model.CadenceHigh}
	require.NoError(t, st.PutGroup(ctx, group))
	require.NoError(t, st.PutCollection(ctx, &model.Collection{
		ID: ids.New(), GroupID: group.ID, Status: model.CollectionReady,
		ArticleIDs: []ids.ID{ids.New()},
	}))
	_, err := leases.Acquire(ctx, group.ID.String(), "owner", time.Hour)
	require.NoError(t, err)

	c := New(st, st, leases, &fakeDispatcher{}, time.Second)
	eligible, err := c.Eligible(ctx, group)
	require.NoError(t, err)
	require.False(t, eligible)
}

func TestEligible_FalseWhenCadenceIntervalNotElapsed(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	leases := lease.NewMemoryManager()

	group := &model.Group{
		ID: ids.New(), MinArticles: 1, CadenceBucket: model.CadenceLow,
		LastEpisodeAt: time.Now(),
	}
	require.NoError(t, st.PutGroup(ctx, group))
	require.NoError(t, st.PutCollection(ctx, &model.Collection{
		ID: ids.New(), GroupID: group.ID, Status: model.CollectionReady,
		ArticleIDs: []ids.ID{ids.New()},
	}))

	c := New(st, st, leases, &fakeDispatcher{}, time.Second)
	eligible, err := c.Eligible(ctx, group)
	require.NoError(t, err)
	require.False(t, eligible)
}

func TestSweep_EnqueuesOnlyEligibleGroups(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	leases := lease.NewMemoryManager()

	eligible := &model.Group{ID: ids.New(), MinArticles: 1, CadenceBucket: model.CadenceHigh}
	notReady := &model.Group{ID: ids.New(), MinArticles: 5, CadenceBucket: model.CadenceHigh}
	require.NoError(t, st.PutGroup(ctx, eligible))
	require.NoError(t, st.PutGroup(ctx, notReady))
	require.NoError(t, st.PutCollection(ctx, &model.Collection{
		ID: ids.New(), GroupID: eligible.ID, Status: model.CollectionReady, ArticleIDs: []ids.ID{ids.New()},
	}))

	dispatcher := &fakeDispatcher{}
	c := New(st, st, leases, dispatcher, time.Second)
	c.Sweep(ctx)

	require.Equal(t, []ids.ID{eligible.ID}, dispatcher.enqueued)
}
