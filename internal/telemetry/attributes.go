// SPDX-License-Identifier: MIT

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys used across orchestrator spans.
const (
	GroupIDKey    = "podcast.group_id"
	ArticleIDKey  = "podcast.article_id"
	EpisodeIDKey  = "podcast.episode_id"
	CapabilityKey = "podcast.capability"
	ReviewTierKey = "podcast.review_tier"
	OutcomeKey    = "podcast.outcome"
	CollectionKey = "podcast.collection_id"
	ConfidenceKey = "podcast.confidence"
	LeaseOwnerKey = "podcast.lease_owner"
)

// CapabilityAttributes builds span attributes for an external capability call.
func CapabilityAttributes(capability, outcome string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(CapabilityKey, capability),
		attribute.String(OutcomeKey, outcome),
	}
}

// EpisodeAttributes builds span attributes for an episode-orchestrator step.
func EpisodeAttributes(groupID, episodeID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(GroupIDKey, groupID),
		attribute.String(EpisodeIDKey, episodeID),
	}
}

// StartCapabilitySpan opens a span for an outbound capability call, tagged
// with the capability name.
func StartCapabilitySpan(ctx context.Context, capability string) (context.Context, trace.Span) {
	ctx, span := Tracer("capability").Start(ctx, "capability."+capability,
		trace.WithAttributes(attribute.String(CapabilityKey, capability)))
	return ctx, span
}
