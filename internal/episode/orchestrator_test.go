// SPDX-License-Identifier: MIT

package episode

import (
	"context"
	"testing"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/capability"
	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/lease"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
	"github.com/elroyic/Podcast-Generator-sub001/internal/store"
	"github.com/stretchr/testify/require"
)

type stubWriter struct{ err error }

func (s *stubWriter) Brief(context.Context, capability.BriefRequest) (capability.BriefResponse, error) {
	if s.err != nil {
		return capability.BriefResponse{}, s.err
	}
	return capability.BriefResponse{Text: "brief"}, nil
}

type stubScript struct{ err error }

func (s *stubScript) Script(context.Context, capability.ScriptRequest) (capability.ScriptResponse, error) {
	if s.err != nil {
		return capability.ScriptResponse{}, s.err
	}
	return capability.ScriptResponse{Script: "Speaker 1: hello", WordCount: 2}, nil
}

type stubEditor struct{ err error }

func (s *stubEditor) Edit(context.Context, capability.EditRequest) (capability.EditResponse, error) {
	if s.err != nil {
		return capability.EditResponse{}, s.err
	}
	return capability.EditResponse{EditedScript: "Speaker 1: hello, edited"}, nil
}

type stubMetadata struct{ err error }

func (s *stubMetadata) Generate(context.Context, capability.MetadataRequest) (capability.MetadataResponse, error) {
	if s.err != nil {
		return capability.MetadataResponse{}, s.err
	}
	return capability.MetadataResponse{Title: "Episode Title", Description: "desc", Tags: []string{"tech"}}, nil
}

type stubSynth struct{ err error }

func (s *stubSynth) Synthesize(context.Context, capability.SynthesizeRequest) (capability.SynthesizeResponse, error) {
	if s.err != nil {
		return capability.SynthesizeResponse{}, s.err
	}
	return capability.SynthesizeResponse{AudioURL: "https://audio.example/ep.mp3", DurationSeconds: 600, ByteSize: 1024, Format: "mp3"}, nil
}

func newTestOrchestrator(t *testing.T, caps capability.Set) (*Orchestrator, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	leases := lease.NewMemoryManager()
	o := New(st, leases, caps, time.Hour, time.Second, 2)
	return o, st
}

func happyCaps() capability.Set {
	return capability.Set{
		Writer:   &stubWriter{},
		Script:   &stubScript{},
		Editor:   &stubEditor{},
		Metadata: &stubMetadata{},
		TTS:      &stubSynth{},
	}
}

func seedReadyGroup(t *testing.T, st store.Store) (*model.Group, *model.Collection) {
	t.Helper()
	ctx := context.Background()

	articleID := ids.New()
	article := &model.Article{ID: articleID, Title: "Some headline", Summary: "summary text"}
	require.NoError(t, st.PutArticle(ctx, article))

	group := &model.Group{ID: ids.New(), PresenterIDs: []string{"presenter-a", "presenter-b"}, MinArticles: 1}
	require.NoError(t, st.PutGroup(ctx, group))

	collection := &model.Collection{ID: ids.New(), GroupID: group.ID, Status: model.CollectionReady, ArticleIDs: []ids.ID{articleID}}
	require.NoError(t, st.PutCollection(ctx, collection))

	return group, collection
}

func TestProcess_HappyPathCompletesEpisode(t *testing.T) {
	o, st := newTestOrchestrator(t, happyCaps())
	ctx := context.Background()
	group, _ := seedReadyGroup(t, st)

	o.process(ctx, job{groupID: group.ID})

	episodes, err := st.ListGenerating(ctx)
	require.NoError(t, err)
	require.Empty(t, episodes)

	collection, err := st.GetReadyCollection(ctx, group.ID)
	require.NoError(t, err)
	require.Nil(t, collection)

	updatedGroup, err := st.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	require.False(t, updatedGroup.LastEpisodeAt.IsZero())
}

func TestProcess_NoReadyCollectionFailsWithInsufficientContent(t *testing.T) {
	o, st := newTestOrchestrator(t, happyCaps())
	ctx := context.Background()

	group := &model.Group{ID: ids.New(), MinArticles: 1}
	require.NoError(t, st.PutGroup(ctx, group))

	o.process(ctx, job{groupID: group.ID})

	status, err := o.Leases.Status(ctx, group.ID.String())
	require.NoError(t, err)
	require.False(t, status.Held)
}

func TestProcess_LeaseHeldByOtherAbandonsWithoutCreatingEpisode(t *testing.T) {
	o, st := newTestOrchestrator(t, happyCaps())
	ctx := context.Background()
	group, _ := seedReadyGroup(t, st)

	_, err := o.Leases.Acquire(ctx, group.ID.String(), "someone-else", time.Hour)
	require.NoError(t, err)

	o.process(ctx, job{groupID: group.ID})

	collection, err := st.GetReadyCollection(ctx, group.ID)
	require.NoError(t, err)
	require.NotNil(t, collection, "collection must remain untouched when the lease is held by another owner")
}

func TestProcess_EditorFailureDegradesButCompletes(t *testing.T) {
	caps := happyCaps()
	caps.Editor = &stubEditor{err: context.DeadlineExceeded}
	o, st := newTestOrchestrator(t, caps)
	ctx := context.Background()
	group, _ := seedReadyGroup(t, st)

	o.process(ctx, job{groupID: group.ID})

	updatedGroup, err := st.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	require.False(t, updatedGroup.LastEpisodeAt.IsZero(), "episode should still complete despite editor failure")
}

func TestProcess_ScriptFailureFailsEpisode(t *testing.T) {
	caps := happyCaps()
	caps.Script = &stubScript{err: context.DeadlineExceeded}
	o, st := newTestOrchestrator(t, caps)
	ctx := context.Background()
	group, _ := seedReadyGroup(t, st)

	o.process(ctx, job{groupID: group.ID})

	updatedGroup, err := st.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	require.True(t, updatedGroup.LastEpisodeAt.IsZero(), "a failed episode must not advance last_episode_at")

	status, err := o.Leases.Status(ctx, group.ID.String())
	require.NoError(t, err)
	require.False(t, status.Held, "lease must be released even on failure")
}

func TestEnqueue_IsIdempotentWhileJobInFlight(t *testing.T) {
	o, _ := newTestOrchestrator(t, happyCaps())
	ctx := context.Background()
	groupID := ids.New()

	require.NoError(t, o.Enqueue(ctx, groupID, false))
	require.NoError(t, o.Enqueue(ctx, groupID, false))

	require.Len(t, o.jobs, 1)
}
