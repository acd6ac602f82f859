// SPDX-License-Identifier: MIT

package episode

import (
	"context"
	"time"

	apperrors "github.com/elroyic/Podcast-Generator-sub001/internal/errors"
	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/elroyic/Podcast-Generator-sub001/internal/metrics"
)

// reaperInterval is how often the reaper checks for stuck episodes.
const reaperInterval = 5 * time.Minute

// reaperGrace is added on top of LeaseTTL before a GENERATING episode is
// considered abandoned (its owner crashed without releasing the lease).
const reaperGrace = 2 * time.Minute

// RunReaper periodically transitions episodes stuck in GENERATING past
// LeaseTTL+grace to FAILED, per the concurrency model's stale-lease sweep.
func (o *Orchestrator) RunReaper(ctx context.Context) error {
	logger := log.WithComponent("episode-reaper")
	ticker := time.NewTicker(reaperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			o.reapOnce(ctx)
		case <-ctx.Done():
			logger.Info().Msg("episode reaper stopped")
			return ctx.Err()
		}
	}
}

func (o *Orchestrator) reapOnce(ctx context.Context) {
	logger := log.WithComponent("episode-reaper")

	stuck, err := o.Store.ListGenerating(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list generating episodes")
		return
	}

	threshold := o.LeaseTTL + reaperGrace
	now := time.Now()
	for _, ep := range stuck {
		if now.Sub(ep.CreatedAt) < threshold {
			continue
		}
		ep.Status = "FAILED"
		ep.FailureReason = apperrors.ReasonGenerationFailed
		if err := o.Store.PutEpisode(ctx, ep); err != nil {
			logger.Error().Err(err).Str("episode_id", ep.ID.String()).Msg("failed to reap stuck episode")
			continue
		}
		metrics.EpisodesFailedTotal.WithLabelValues("reaped").Inc()
		logger.Warn().Str("episode_id", ep.ID.String()).Str("group_id", ep.GroupID.String()).Msg("reaped stuck GENERATING episode")
	}
}
