// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// traceAdminSurface wraps the admin router with OpenTelemetry HTTP
// instrumentation so an inbound /generate-episode or /production/pause call
// shows up as a span alongside the outbound capability spans
// internal/telemetry starts for the work it triggers. /health and /metrics
// are excluded: they're polled continuously by infra and would otherwise
// dwarf every span the admin surface actually does work for.
func traceAdminSurface(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "podcast-orchestrator-admin",
		otelhttp.WithFilter(func(r *http.Request) bool {
			switch r.URL.Path {
			case "/health", "/metrics":
				return false
			default:
				return true
			}
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
