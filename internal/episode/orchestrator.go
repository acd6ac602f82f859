// SPDX-License-Identifier: MIT

// Package episode implements the Episode Orchestrator (C7): the central
// sequential state machine that, under the group's lease, drives brief →
// script → edit → metadata → audio and persists every artifact along the
// way, per spec.md §4.7.
package episode

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/capability"
	apperrors "github.com/elroyic/Podcast-Generator-sub001/internal/errors"
	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/lease"
	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/elroyic/Podcast-Generator-sub001/internal/metrics"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
	"github.com/elroyic/Podcast-Generator-sub001/internal/store"
	"github.com/elroyic/Podcast-Generator-sub001/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// defaultTargetDurationMinutes seeds the script capability's target
// duration when the Group carries no explicit value of its own.
const defaultTargetDurationMinutes = 10

// jobQueueCapacity bounds the number of queued-but-not-yet-running episode
// jobs, mirroring C8's bounded queue design.
const jobQueueCapacity = 256

// job is one group's pending episode-generation request.
type job struct {
	groupID ids.ID
	force   bool
}

// Orchestrator is the C7 contract: one logical instance drains a bounded
// job queue, and per group enforces at-most-one concurrent generation via
// the Group Lease Manager (C2).
type Orchestrator struct {
	Store        store.Store
	Leases       lease.Manager
	Capabilities capability.Set

	LeaseTTL          time.Duration
	CapabilityTimeout time.Duration
	Concurrency       int

	jobs chan job

	mu       sync.Mutex
	inFlight map[ids.ID]bool // queued or running, for idempotent Enqueue
}

// New builds an Orchestrator. concurrency defaults to 4 if <= 0.
func New(st store.Store, leases lease.Manager, caps capability.Set, leaseTTL, capabilityTimeout time.Duration, concurrency int) *Orchestrator {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Orchestrator{
		Store:             st,
		Leases:            leases,
		Capabilities:      caps,
		LeaseTTL:          leaseTTL,
		CapabilityTimeout: capabilityTimeout,
		Concurrency:       concurrency,
		jobs:              make(chan job, jobQueueCapacity),
		inFlight:          make(map[ids.ID]bool),
	}
}

// Enqueue implements cadence.Dispatcher: idempotent per group — a second
// attempt while a job for groupID is queued or running is a no-op
// (spec.md §4.6).
func (o *Orchestrator) Enqueue(ctx context.Context, groupID ids.ID, force bool) error {
	o.mu.Lock()
	if o.inFlight[groupID] {
		o.mu.Unlock()
		return nil
	}
	o.inFlight[groupID] = true
	o.mu.Unlock()

	select {
	case o.jobs <- job{groupID: groupID, force: force}:
		return nil
	case <-ctx.Done():
		o.clearInFlight(groupID)
		return ctx.Err()
	default:
		o.clearInFlight(groupID)
		return apperrors.Capacity("EPISODE_QUEUE_FULL", nil)
	}
}

func (o *Orchestrator) clearInFlight(groupID ids.ID) {
	o.mu.Lock()
	delete(o.inFlight, groupID)
	o.mu.Unlock()
}

// Run starts Concurrency worker goroutines draining the job queue, and
// blocks until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	logger := log.WithComponent("episode")
	logger.Info().Int("concurrency", o.Concurrency).Msg("episode orchestrator starting")

	var wg sync.WaitGroup
	for i := 0; i < o.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case j := <-o.jobs:
					o.process(ctx, j)
					o.clearInFlight(j.groupID)
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	wg.Wait()
	logger.Info().Msg("episode orchestrator stopped")
	return ctx.Err()
}

// process runs spec.md §4.7's thirteen steps for one group's job.
func (o *Orchestrator) process(ctx context.Context, j job) {
	start := time.Now()
	logger := log.FromContext(ctx, "episode")
	ctx = log.ContextWithGroupID(ctx, j.groupID.String())

	ownerToken := ids.New().String()
	result, err := o.Leases.Acquire(ctx, j.groupID.String(), ownerToken, o.LeaseTTL)
	if err != nil {
		logger.Error().Err(err).Msg("failed to acquire group lease")
		return
	}
	if result == lease.HeldByOther {
		logger.Info().Msg("group lease held by another generation run, abandoning")
		return
	}
	metrics.ActiveLeases.Inc()
	defer func() {
		metrics.ActiveLeases.Dec()
		if _, err := o.Leases.Release(ctx, j.groupID.String(), ownerToken); err != nil {
			logger.Error().Err(err).Msg("failed to release group lease")
		}
	}()

	group, err := o.Store.GetGroup(ctx, j.groupID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load group")
		return
	}

	episode := &model.Episode{ID: ids.New(), GroupID: group.ID, Status: model.EpisodeQueued, CreatedAt: time.Now()}
	if err := o.Store.PutEpisode(ctx, episode); err != nil {
		logger.Error().Err(err).Msg("failed to persist queued episode")
		return
	}
	ctx = log.ContextWithEpisodeID(ctx, episode.ID.String())
	tracer := telemetry.Tracer("episode")
	ctx, span := tracer.Start(ctx, "episode.generate")
	defer span.End()

	ready, err := o.Store.GetReadyCollection(ctx, group.ID)
	if err != nil {
		o.fail(ctx, episode, apperrors.ReasonInsufficientContent, err)
		return
	}
	if ready == nil || ready.ItemCount() < group.MinArticlesOrDefault() {
		o.fail(ctx, episode, apperrors.ReasonInsufficientContent, fmt.Errorf("collection below threshold"))
		return
	}

	snapshot, err := o.snapshotAndConsume(ctx, ready)
	if err != nil {
		o.fail(ctx, episode, apperrors.ReasonInsufficientContent, err)
		return
	}
	episode.CollectionSnapshotID = snapshot.ID
	episode.Status = model.EpisodeGenerating
	if err := o.Store.PutEpisode(ctx, episode); err != nil {
		logger.Error().Err(err).Msg("failed to persist generating episode")
		return
	}

	snapshotTexts, err := o.snapshotTexts(ctx, snapshot)
	if err != nil {
		o.fail(ctx, episode, apperrors.ReasonGenerationFailed, err)
		return
	}

	briefs := o.collectBriefs(ctx, group, snapshotTexts)

	script, wordCount, err := o.requestScript(ctx, group, briefs, snapshotTexts)
	if err != nil {
		o.fail(ctx, episode, apperrors.ReasonGenerationFailed, err)
		return
	}
	_ = wordCount

	finalScript, degraded := o.requestEdit(ctx, script)

	meta, err := o.requestMetadata(ctx, group, finalScript)
	if err != nil {
		o.fail(ctx, episode, apperrors.ReasonGenerationFailed, err)
		return
	}

	synth, err := o.requestSynthesis(ctx, episode, group, finalScript)
	if err != nil {
		o.fail(ctx, episode, apperrors.ReasonGenerationFailed, err)
		return
	}

	audio := &model.AudioFile{
		ID:              ids.New(),
		EpisodeID:       episode.ID,
		URL:             synth.AudioURL,
		DurationSeconds: synth.DurationSeconds,
		ByteSize:        synth.ByteSize,
		Format:          model.AudioFormat(synth.Format),
	}
	if err := o.Store.PutAudioFile(ctx, audio); err != nil {
		o.fail(ctx, episode, apperrors.ReasonGenerationFailed, err)
		return
	}

	episode.Status = model.EpisodeCompleted
	episode.Script = finalScript
	episode.Title = meta.Title
	episode.Description = meta.Description
	episode.Tags = meta.Tags
	episode.DurationSeconds = synth.DurationSeconds
	episode.Degraded = degraded
	if err := o.Store.PutEpisode(ctx, episode); err != nil {
		logger.Error().Err(err).Msg("failed to persist completed episode")
		return
	}

	group.LastEpisodeAt = time.Now()
	if err := o.Store.PutGroup(ctx, group); err != nil {
		logger.Error().Err(err).Msg("failed to update group last_episode_at")
	}

	metrics.EpisodesGeneratedTotal.Inc()
	metrics.EpisodeGenerationDurationSeconds.Observe(time.Since(start).Seconds())
	logger.Info().Str("episode_id", episode.ID.String()).Dur("elapsed", time.Since(start)).Msg("episode generation completed")
}

// snapshotAndConsume takes an immutable copy of the collection's article
// list and transitions the collection to CONSUMED (spec.md §4.7 step 4).
func (o *Orchestrator) snapshotAndConsume(ctx context.Context, ready *model.Collection) (*model.Snapshot, error) {
	snapshot := &model.Snapshot{
		ID:           ids.New(),
		CollectionID: ready.ID,
		GroupID:      ready.GroupID,
		ArticleIDs:   append([]ids.ID(nil), ready.ArticleIDs...),
		TakenAt:      time.Now(),
	}
	if err := o.Store.PutSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("put snapshot: %w", err)
	}
	ready.Status = model.CollectionConsumed
	if err := o.Store.PutCollection(ctx, ready); err != nil {
		return nil, fmt.Errorf("mark collection consumed: %w", err)
	}
	metrics.CollectionsBuiltTotal.WithLabelValues("consumed").Inc()
	metrics.CollectionsReady.Dec()
	return snapshot, nil
}

func (o *Orchestrator) snapshotTexts(ctx context.Context, snapshot *model.Snapshot) ([]string, error) {
	texts := make([]string, 0, len(snapshot.ArticleIDs))
	for _, articleID := range snapshot.ArticleIDs {
		article, err := o.Store.GetArticle(ctx, articleID)
		if err != nil {
			return nil, fmt.Errorf("load snapshot article %s: %w", articleID, err)
		}
		texts = append(texts, fmt.Sprintf("%s: %s", article.Title, article.Summary))
	}
	return texts, nil
}

// collectBriefs fans out one brief request per presenter (step 6). A
// failed brief is non-fatal: the presenter gets a fallback brief instead.
func (o *Orchestrator) collectBriefs(ctx context.Context, group *model.Group, snapshotTexts []string) []string {
	logger := log.FromContext(ctx, "episode")
	briefs := make([]string, len(group.PresenterIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, presenterID := range group.PresenterIDs {
		i, presenterID := i, presenterID
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, o.CapabilityTimeout)
			defer cancel()
			resp, err := o.Capabilities.Writer.Brief(callCtx, capability.BriefRequest{
				PresenterID:        presenterID,
				CollectionSnapshot: snapshotTexts,
			})
			if err != nil {
				logger.Warn().Str("presenter_id", presenterID).Err(err).Msg("brief request failed, using fallback")
				briefs[i] = fallbackBrief(presenterID)
				return nil
			}
			briefs[i] = resp.Text
			return nil
		})
	}
	_ = g.Wait() // every branch returns nil; errors are absorbed into fallback briefs
	return briefs
}

func fallbackBrief(presenterID string) string {
	return fmt.Sprintf("(fallback brief for presenter %s: writer capability unavailable)", presenterID)
}

func (o *Orchestrator) requestScript(ctx context.Context, group *model.Group, briefs, snapshotTexts []string) (string, int, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.CapabilityTimeout)
	defer cancel()
	resp, err := o.Capabilities.Script.Script(callCtx, capability.ScriptRequest{
		GroupID:               group.ID.String(),
		Briefs:                briefs,
		Snapshot:              snapshotTexts,
		TargetDurationMinutes: defaultTargetDurationMinutes,
	})
	if err != nil {
		return "", 0, fmt.Errorf("script request: %w", err)
	}
	return resp.Script, resp.WordCount, nil
}

// requestEdit is non-fatal on failure: the unedited script is used and the
// degradation is recorded on the episode (spec.md §4.7 step 8).
func (o *Orchestrator) requestEdit(ctx context.Context, script string) (string, bool) {
	logger := log.FromContext(ctx, "episode")
	callCtx, cancel := context.WithTimeout(ctx, o.CapabilityTimeout)
	defer cancel()
	resp, err := o.Capabilities.Editor.Edit(callCtx, capability.EditRequest{Script: script})
	if err != nil {
		logger.Warn().Err(err).Msg("editor failed, proceeding with unedited script")
		return script, true
	}
	return resp.EditedScript, false
}

func (o *Orchestrator) requestMetadata(ctx context.Context, group *model.Group, script string) (capability.MetadataResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.CapabilityTimeout)
	defer cancel()
	resp, err := o.Capabilities.Metadata.Generate(callCtx, capability.MetadataRequest{Script: script, GroupID: group.ID.String()})
	if err != nil {
		return capability.MetadataResponse{}, fmt.Errorf("metadata request: %w", err)
	}
	return resp, nil
}

func (o *Orchestrator) requestSynthesis(ctx context.Context, episode *model.Episode, group *model.Group, script string) (capability.SynthesizeResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.CapabilityTimeout)
	defer cancel()
	resp, err := o.Capabilities.TTS.Synthesize(callCtx, capability.SynthesizeRequest{
		EpisodeID:        episode.ID.String(),
		Script:           script,
		VoiceAssignments: voiceAssignments(group),
	})
	if err != nil {
		return capability.SynthesizeResponse{}, fmt.Errorf("synthesize request: %w", err)
	}
	return resp, nil
}

// voiceAssignments maps each `Speaker N` turn marker to a presenter's
// voice, in presenter declaration order.
func voiceAssignments(group *model.Group) map[string]string {
	assignments := make(map[string]string, len(group.PresenterIDs))
	for i, presenterID := range group.PresenterIDs {
		assignments[strconv.Itoa(i+1)] = presenterID
	}
	return assignments
}

// fail transitions episode to FAILED with reason, persists it, and records
// the failure metric. Collection CONSUMED/READY status is left as-is per
// the bound Open Question decision (DESIGN.md): FAILED leaves the
// collection CONSUMED, not returned to READY.
func (o *Orchestrator) fail(ctx context.Context, ep *model.Episode, reason string, cause error) {
	logger := log.FromContext(ctx, "episode")
	ep.Status = model.EpisodeFailed
	ep.FailureReason = reason
	if err := o.Store.PutEpisode(ctx, ep); err != nil {
		logger.Error().Err(err).Msg("failed to persist failed episode")
	}
	metrics.EpisodesFailedTotal.WithLabelValues(reason).Inc()
	logger.Error().Str("reason", reason).Err(cause).Msg("episode generation failed")
}
