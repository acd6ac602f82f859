// SPDX-License-Identifier: MIT

// Package cadence implements the Cadence Controller (C6): a periodic tick
// that enumerates groups, decides eligibility for a new episode, and
// idempotently enqueues an episode-generation job for each eligible one.
package cadence

import (
	"context"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/lease"
	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/elroyic/Podcast-Generator-sub001/internal/metrics"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
	"github.com/elroyic/Podcast-Generator-sub001/internal/store"
)

// Dispatcher enqueues an episode-generation job for a group. Implemented
// by the Episode Orchestrator's (C7) job queue.
type Dispatcher interface {
	// Enqueue is idempotent: a second attempt while a job for groupID is
	// already queued or running is a no-op (spec.md §4.6).
	Enqueue(ctx context.Context, groupID ids.ID, forceRegenerate bool) error
}

// Controller runs the periodic eligibility sweep.
type Controller struct {
	Groups     store.Groups
	Collections controllerStore
	Leases     lease.Manager
	Dispatcher Dispatcher
	Tick       time.Duration
}

// controllerStore is the narrow slice of store.Collections the Controller
// needs.
type controllerStore interface {
	GetReadyCollection(ctx context.Context, groupID ids.ID) (*model.Collection, error)
}

// New builds a Controller. tick defaults to 30s (CADENCE_TICK_SECONDS's
// default) if <= 0.
func New(groups store.Groups, collections controllerStore, leases lease.Manager, dispatcher Dispatcher, tick time.Duration) *Controller {
	if tick <= 0 {
		tick = 30 * time.Second
	}
	return &Controller{Groups: groups, Collections: collections, Leases: leases, Dispatcher: dispatcher, Tick: tick}
}

// Run ticks every Controller.Tick until ctx is cancelled, sweeping group
// eligibility on each tick.
func (c *Controller) Run(ctx context.Context) error {
	logger := log.WithComponent("cadence")
	logger.Info().Dur("tick", c.Tick).Msg("cadence controller starting")

	ticker := time.NewTicker(c.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep(ctx)
		case <-ctx.Done():
			logger.Info().Msg("cadence controller stopped")
			return ctx.Err()
		}
	}
}

// Sweep enumerates every group and enqueues a generation job for each one
// currently eligible, per spec.md §4.6.
func (c *Controller) Sweep(ctx context.Context) {
	logger := log.WithComponent("cadence")

	groups, err := c.Groups.ListGroups(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list groups for cadence sweep")
		return
	}

	for _, g := range groups {
		eligible, err := c.Eligible(ctx, g)
		if err != nil {
			logger.Error().Str("group_id", g.ID.String()).Err(err).Msg("failed to evaluate eligibility")
			continue
		}
		if !eligible {
			continue
		}
		if err := c.Dispatcher.Enqueue(ctx, g.ID, false); err != nil {
			logger.Warn().Str("group_id", g.ID.String()).Err(err).Msg("failed to enqueue episode job")
			continue
		}
		metrics.EpisodesQueuedTotal.Inc()
	}
}

// Eligible reports whether g currently satisfies spec.md §4.6's three
// conditions: a READY collection at threshold, the cadence interval
// elapsed since the last episode, and no lease currently held.
func (c *Controller) Eligible(ctx context.Context, g *model.Group) (bool, error) {
	ready, err := c.Collections.GetReadyCollection(ctx, g.ID)
	if err != nil {
		return false, err
	}
	if ready == nil || ready.ItemCount() < g.MinArticlesOrDefault() {
		return false, nil
	}

	// A MANUAL (or unknown) bucket maps to the maximum Duration, and
	// time.Since saturates at that same value for a zero LastEpisodeAt, so
	// that case is rejected explicitly rather than by the comparison.
	interval := model.IntervalFor(g.CadenceBucket)
	if interval == time.Duration(1<<63-1) || time.Since(g.LastEpisodeAt) < interval {
		return false, nil
	}

	status, err := c.Leases.Status(ctx, g.ID.String())
	if err != nil {
		return false, err
	}
	if status.Held {
		return false, nil
	}

	return true, nil
}
