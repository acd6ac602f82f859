// SPDX-License-Identifier: MIT

package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey string

const (
	requestIDKey     ctxKey = "request_id"
	correlationIDKey ctxKey = "correlation_id"
	articleIDKey     ctxKey = "article_id"
	groupIDKey       ctxKey = "group_id"
	episodeIDKey     ctxKey = "episode_id"
)

// ContextWithRequestID stores the request ID in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID stores the correlation ID in the context.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithArticleID stores the article ID in the context.
func ContextWithArticleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, articleIDKey, id)
}

// ContextWithGroupID stores the group ID in the context.
func ContextWithGroupID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, groupIDKey, id)
}

// ContextWithEpisodeID stores the episode ID in the context.
func ContextWithEpisodeID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, episodeIDKey, id)
}

func stringFromContext(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// FromContext returns a component logger enriched with any request-scoped
// identifiers present in ctx.
func FromContext(ctx context.Context, component string) zerolog.Logger {
	logger := WithComponent(component)
	ev := logger.With()
	if v := stringFromContext(ctx, requestIDKey); v != "" {
		ev = ev.Str("request_id", v)
	}
	if v := stringFromContext(ctx, correlationIDKey); v != "" {
		ev = ev.Str("correlation_id", v)
	}
	if v := stringFromContext(ctx, articleIDKey); v != "" {
		ev = ev.Str("article_id", v)
	}
	if v := stringFromContext(ctx, groupIDKey); v != "" {
		ev = ev.Str("group_id", v)
	}
	if v := stringFromContext(ctx, episodeIDKey); v != "" {
		ev = ev.Str("episode_id", v)
	}
	return ev.Logger()
}
