// SPDX-License-Identifier: MIT

// Package intake implements Article Intake (C3): normalize and fingerprint
// an incoming feed item, drop it if it duplicates content already seen
// within the fingerprint window, persist it, and enqueue it for review.
package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/errors"
	"github.com/elroyic/Podcast-Generator-sub001/internal/fingerprint"
	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/elroyic/Podcast-Generator-sub001/internal/metrics"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
	"github.com/elroyic/Podcast-Generator-sub001/internal/store"
)

// RawItem is the internal queue message the (out-of-scope) feed poller
// hands to Intake, per spec.md §6.
type RawItem struct {
	FeedID       ids.ID
	RawTitle     string
	RawURL       string
	RawContent   string
	RawPublished time.Time
}

// Enqueuer hands an accepted article's ID to the review backlog (C8). A
// narrow interface so Intake doesn't import the queue package.
type Enqueuer interface {
	Enqueue(ctx context.Context, articleID ids.ID) error
}

// retryBackoff is spec.md §4.3's persistence-retry schedule: base 1s,
// factor 2, capped at 60s, at most 5 attempts.
var retryBackoff = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	4 * time.Second,
	8 * time.Second,
	16 * time.Second,
}

const maxPersistAttempts = 5

// Intake drives the C3 steps: fingerprint, dedup, persist, enqueue. The
// DEDUP_ENABLED toggle is honored inside Fingerprints itself (it always
// reports Fresh when disabled), so Intake doesn't branch on it directly.
type Intake struct {
	Store          store.Articles
	Fingerprints   fingerprint.Store
	Queue          Enqueuer
	FingerprintTTL time.Duration
}

// New builds an Intake over its collaborators.
func New(st store.Articles, fp fingerprint.Store, q Enqueuer, ttl time.Duration) *Intake {
	return &Intake{Store: st, Fingerprints: fp, Queue: q, FingerprintTTL: ttl}
}

// ErrDuplicate is returned when the item's fingerprint was already seen
// within the window; the caller should treat this as a silent drop, not a
// failure (spec.md §4.3 step 2).
var ErrDuplicate = fmt.Errorf("intake: duplicate fingerprint")

// Submit runs the full C3 pipeline over one raw feed item and returns the
// persisted Article's ID.
func (in *Intake) Submit(ctx context.Context, item RawItem) (ids.ID, error) {
	logger := log.FromContext(ctx, "intake")
	metrics.ArticlesIngestedTotal.Inc()

	hash := fingerprint.Fingerprint(item.RawTitle, item.RawURL, item.RawContent)

	outcome, err := in.Fingerprints.SeenOrInsert(ctx, hash, in.FingerprintTTL)
	if err != nil {
		return "", errors.Transient(fmt.Errorf("seen_or_insert: %w", err))
	}
	if outcome == fingerprint.Duplicate {
		metrics.ArticlesDuplicateTotal.Inc()
		logger.Debug().Str("fingerprint", hash).Msg("dropping duplicate article")
		return "", ErrDuplicate
	}

	article := &model.Article{
		ID:          ids.New(),
		FeedID:      item.FeedID,
		Title:       item.RawTitle,
		URL:         item.RawURL,
		Content:     item.RawContent,
		PublishedAt: item.RawPublished,
		Fingerprint: hash,
		ReviewTier:  model.ReviewNone,
		ReviewState: model.ReviewStateNone,
	}

	if err := in.persistWithRetry(ctx, article); err != nil {
		metrics.DeadLetterTotal.WithLabelValues("intake").Inc()
		logger.Error().Str("article_id", article.ID.String()).Err(err).Msg("article persistence exhausted retries, dead-lettering")
		return "", errors.Fatal("PERSIST_FAILED", err)
	}

	if err := in.Queue.Enqueue(ctx, article.ID); err != nil {
		logger.Error().Str("article_id", article.ID.String()).Err(err).Msg("failed to enqueue article for review")
		return article.ID, errors.Transient(err)
	}

	return article.ID, nil
}

// persistWithRetry retries store.PutArticle with exponential backoff on
// failure, per spec.md §4.3's "Failure" clause.
func (in *Intake) persistWithRetry(ctx context.Context, article *model.Article) error {
	logger := log.FromContext(ctx, "intake")
	var lastErr error
	for attempt := 0; attempt < maxPersistAttempts; attempt++ {
		if attempt > 0 {
			delay := retryBackoff[attempt-1]
			logger.Warn().Int("attempt", attempt).Dur("delay", delay).Err(lastErr).Msg("retrying article persistence")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := in.Store.PutArticle(ctx, article); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
