// SPDX-License-Identifier: MIT

// Package queue implements the Review Queue Worker (C8): a bounded, FIFO
// queue of article IDs driving the Review Cascade (C4), honoring the
// production-pause contract (no dispatch while any group holds a
// generation lease) and feeding accepted articles into the Collection
// Builder (C5).
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/collection"
	"github.com/elroyic/Podcast-Generator-sub001/internal/config"
	apperrors "github.com/elroyic/Podcast-Generator-sub001/internal/errors"
	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/lease"
	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/elroyic/Podcast-Generator-sub001/internal/metrics"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
	"github.com/elroyic/Podcast-Generator-sub001/internal/review"
	"github.com/elroyic/Podcast-Generator-sub001/internal/store"
)

// maxDispatchAttempts is spec.md §4.8's "drop to dead-letter after 3
// attempts".
const maxDispatchAttempts = 3

// requeueDelay staggers a re-dispatch so a persistently failing article
// doesn't spin the worker loop hot.
const requeueDelay = 2 * time.Second

// idlePoll is how long a worker blocks waiting for a job before
// re-checking the pause signal, bounding how stale that check can get.
const idlePoll = 200 * time.Millisecond

// job is one article ID moving through the queue, carrying a dispatch
// attempt counter for the dead-letter policy.
type job struct {
	articleID ids.ID
	attempt   int
}

// Worker is the C8 contract: a bounded concurrent pool of dispatchers that
// pause while any group lease is held, and otherwise drive each queued
// article through review and collection assignment.
type Worker struct {
	Store    store.Articles
	Cascade  *review.Cascade
	Builder  *collection.Builder
	Leases   lease.Manager
	Reviewer *config.ReviewerManager

	Concurrency int

	jobs chan job
}

// New builds a Worker with the given bounded queue capacity and
// concurrency. concurrency defaults to REVIEW_CONCURRENCY's default of 4
// if <= 0; capacity defaults to 1000.
func New(st store.Articles, cascade *review.Cascade, builder *collection.Builder, leases lease.Manager, reviewer *config.ReviewerManager, concurrency, capacity int) *Worker {
	if concurrency <= 0 {
		concurrency = 4
	}
	if capacity <= 0 {
		capacity = 1000
	}
	return &Worker{
		Store:       st,
		Cascade:     cascade,
		Builder:     builder,
		Leases:      leases,
		Reviewer:    reviewer,
		Concurrency: concurrency,
		jobs:        make(chan job, capacity),
	}
}

// Enqueue implements intake.Enqueuer: it pushes articleID onto the bounded
// queue, returning a Capacity error if the queue is full rather than
// blocking the caller (spec.md §7, "Capacity ... return structured busy
// signal").
func (w *Worker) Enqueue(ctx context.Context, articleID ids.ID) error {
	select {
	case w.jobs <- job{articleID: articleID}:
		metrics.QueueDepth.Set(float64(len(w.jobs)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return apperrors.Capacity("QUEUE_FULL", nil)
	}
}

// Run starts Concurrency dispatcher goroutines and blocks until ctx is
// cancelled, at which point all dispatchers drain and Run returns.
func (w *Worker) Run(ctx context.Context) error {
	logger := log.WithComponent("queue")
	logger.Info().Int("concurrency", w.Concurrency).Msg("review queue worker starting")

	var wg sync.WaitGroup
	for i := 0; i < w.Concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.dispatchLoop(ctx, id)
		}(i)
	}
	wg.Wait()
	logger.Info().Msg("review queue worker stopped")
	return ctx.Err()
}

func (w *Worker) dispatchLoop(ctx context.Context, workerID int) {
	logger := log.WithComponent("queue").With().Int("worker", workerID).Logger()

	for {
		if ctx.Err() != nil {
			return
		}

		active, err := w.Leases.AnyActive(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to check lease activity, assuming paused")
			active = true
		}
		if active {
			backoff := w.Reviewer.Get().PauseBackoff
			if backoff <= 0 {
				backoff = 5 * time.Second
			}
			select {
			case <-time.After(backoff):
				continue
			case <-ctx.Done():
				return
			}
		}

		select {
		case j := <-w.jobs:
			metrics.QueueDepth.Set(float64(len(w.jobs)))
			w.process(ctx, j)
		case <-time.After(idlePoll):
		case <-ctx.Done():
			return
		}
	}
}

// process drives one article through the Review Cascade and, on
// acceptance, the Collection Builder. A re-dispatched already-reviewed
// article (at-least-once redelivery per spec.md §5) is a no-op.
func (w *Worker) process(ctx context.Context, j job) {
	logger := log.FromContext(ctx, "queue")
	ctx = log.ContextWithArticleID(ctx, j.articleID.String())

	article, err := w.Store.GetArticle(ctx, j.articleID)
	if err != nil {
		logger.Error().Err(err).Msg("article not found, dropping from queue")
		return
	}

	if isTerminalReviewState(article.ReviewState) {
		logger.Debug().Msg("article already reviewed, skipping re-dispatch")
		return
	}

	outcome, err := w.Cascade.Run(ctx, article.ID.String(), article.Title, article.Content)
	if err != nil {
		w.retryOrDeadLetter(ctx, j, err)
		return
	}

	machine, err := review.NewArticleMachine(article.ReviewState)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build review state machine")
		return
	}
	if err := review.Drive(ctx, machine, outcome); err != nil {
		w.retryOrDeadLetter(ctx, j, err)
		return
	}

	updated, err := w.Store.UpdateArticle(ctx, article.ID, func(a *model.Article) error {
		a.ReviewTier = outcome.ReviewTier
		a.ReviewState = machine.State()
		a.Tags = outcome.Tags
		a.Summary = outcome.Summary
		a.Confidence = outcome.Confidence
		a.ProcessedAt = nowFunc()
		return nil
	})
	if err != nil {
		w.retryOrDeadLetter(ctx, j, err)
		return
	}

	if w.Builder == nil {
		return
	}
	if err := w.Builder.Assign(ctx, updated); err != nil {
		logger.Error().Err(err).Msg("failed to assign reviewed article to a collection")
	}
}

func (w *Worker) retryOrDeadLetter(ctx context.Context, j job, cause error) {
	logger := log.FromContext(ctx, "queue")
	j.attempt++
	if j.attempt >= maxDispatchAttempts {
		metrics.DeadLetterTotal.WithLabelValues("review").Inc()
		logger.Error().Int("attempts", j.attempt).Err(cause).Msg("article exhausted review dispatch attempts, dead-lettering")
		return
	}
	logger.Warn().Int("attempt", j.attempt).Err(cause).Msg("requeueing article after review dispatch failure")
	go func() {
		select {
		case <-time.After(requeueDelay):
		case <-ctx.Done():
			return
		}
		select {
		case w.jobs <- j:
			metrics.QueueDepth.Set(float64(len(w.jobs)))
		case <-ctx.Done():
		}
	}()
}

func isTerminalReviewState(s model.ReviewState) bool {
	switch s {
	case model.ReviewStateAcceptedLight, model.ReviewStateAcceptedHeavy, model.ReviewStateFailedFallback:
		return true
	default:
		return false
	}
}

// nowFunc is overridable in tests.
var nowFunc = time.Now
