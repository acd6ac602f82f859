// SPDX-License-Identifier: MIT

// Package review implements the confidence-based two-tier review cascade
// (C4): Light first, escalating to Heavy only when Light's confidence
// falls below the live-configurable threshold.
package review

import (
	"context"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/capability"
	"github.com/elroyic/Podcast-Generator-sub001/internal/config"
	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/elroyic/Podcast-Generator-sub001/internal/metrics"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
)

// fallbackTags is the tag set used when even the Heavy reviewer's result
// falls below its own threshold (spec.md §4.4 step 5).
var fallbackTags = []string{"news", "general"}

// Outcome is the decided disposition of one cascade run over an article.
type Outcome struct {
	ReviewTier  model.ReviewTier
	ReviewState model.ReviewState
	Tags        []string
	Summary     string
	Confidence  float64
}

// Cascade runs the Light→Heavy escalation over a configurable threshold
// pair. A Cascade is safe for concurrent use; Thresholds is read fresh on
// every Run so a config reload takes effect on the very next article, per
// spec.md §4.4.
type Cascade struct {
	light      capability.Reviewer
	heavy      capability.Reviewer
	thresholds *config.ReviewerManager
}

// New builds a Cascade over the Light/Heavy capabilities and the live
// threshold manager.
func New(light, heavy capability.Reviewer, thresholds *config.ReviewerManager) *Cascade {
	return &Cascade{light: light, heavy: heavy, thresholds: thresholds}
}

// Run executes spec.md §4.4's algorithm for one article.
func (c *Cascade) Run(ctx context.Context, articleID, title, content string) (Outcome, error) {
	logger := log.FromContext(ctx, "review")
	cfg := c.thresholds.Get()

	lightStart := time.Now()
	lightResp, lightErr := c.light.Review(ctx, capability.ReviewRequest{Title: title, Content: content})
	metrics.ReviewDurationSeconds.WithLabelValues("light").Observe(time.Since(lightStart).Seconds())

	if lightErr == nil && lightResp.Confidence >= cfg.LightThreshold {
		metrics.ReviewsTotal.WithLabelValues("light", "accepted").Inc()
		return Outcome{
			ReviewTier:  model.ReviewLight,
			ReviewState: model.ReviewStateAcceptedLight,
			Tags:        lightResp.Tags,
			Summary:     lightResp.Summary,
			Confidence:  lightResp.Confidence,
		}, nil
	}

	if lightErr != nil {
		logger.Warn().Str("article_id", articleID).Err(lightErr).Msg("light reviewer failed, escalating to heavy")
	}

	heavyStart := time.Now()
	heavyResp, heavyErr := c.heavy.Review(ctx, capability.ReviewRequest{Title: title, Content: content})
	metrics.ReviewDurationSeconds.WithLabelValues("heavy").Observe(time.Since(heavyStart).Seconds())

	if heavyErr != nil {
		// Heavy failure (whether reached via Light failure or a low-confidence
		// Light result): persist with confidence 0, tags fallback (spec.md
		// §4.4 edge case).
		logger.Warn().Str("article_id", articleID).Err(heavyErr).Msg("heavy reviewer failed, falling back")
		metrics.ReviewsTotal.WithLabelValues("heavy", "failed").Inc()
		return Outcome{
			ReviewTier:  model.ReviewHeavy,
			ReviewState: model.ReviewStateFailedFallback,
			Tags:        fallbackTags,
			Confidence:  0,
		}, nil
	}

	if heavyResp.Confidence >= cfg.HeavyThreshold {
		metrics.ReviewsTotal.WithLabelValues("heavy", "accepted").Inc()
		return Outcome{
			ReviewTier:  model.ReviewHeavy,
			ReviewState: model.ReviewStateAcceptedHeavy,
			Tags:        heavyResp.Tags,
			Summary:     heavyResp.Summary,
			Confidence:  heavyResp.Confidence,
		}, nil
	}

	metrics.ReviewsTotal.WithLabelValues("heavy", "fallback").Inc()
	return Outcome{
		ReviewTier:  model.ReviewHeavy,
		ReviewState: model.ReviewStateFailedFallback,
		Tags:        fallbackTags,
		Summary:     heavyResp.Summary,
		Confidence:  heavyResp.Confidence,
	}, nil
}
