// SPDX-License-Identifier: MIT

// Package api implements the admin HTTP surface: episode generation
// triggers, cadence/queue status, live reviewer configuration, and manual
// production pause/resume, per spec.md §6 and SPEC_FULL.md §12.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/config"
	"github.com/elroyic/Podcast-Generator-sub001/internal/health"
	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/lease"
	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maintenanceGroupID is the reserved synthetic group id used to model a
// manual production pause as an ordinary group lease, so
// lease.Manager.AnyActive observes it the same way it observes a real
// episode generation run (SPEC_FULL.md §12).
const maintenanceGroupID = "__maintenance__"

// maintenanceOwnerToken identifies the admin-initiated pause lease, distinct
// from any episode orchestrator owner token.
const maintenanceOwnerToken = "admin-production-pause"

// maintenanceLeaseTTL is long enough that a pause never silently expires
// mid-operation; resume is always explicit.
const maintenanceLeaseTTL = 24 * time.Hour

// Dispatcher triggers episode generation for a group. Implemented by the
// Episode Orchestrator (C7).
type Dispatcher interface {
	Enqueue(ctx context.Context, groupID ids.ID, forceRegenerate bool) error
}

// CadenceStatus is the subset of cadence.Controller state the admin surface
// reports.
type CadenceStatus struct {
	Tick time.Duration
}

// QueueStatus reports the review queue worker's run state, folded into
// GET /cadence/status per SPEC_FULL.md §12 rather than its own endpoint.
type QueueStatus struct {
	WorkerRunning    bool
	Paused           bool
	ProductionActive bool
}

// Server bundles the admin HTTP surface's dependencies.
type Server struct {
	Dispatcher    Dispatcher
	Leases        lease.Manager
	Reviewer      *config.ReviewerManager
	Health        *health.Manager
	CadenceTick   time.Duration
	QueueStatusFn func(ctx context.Context) QueueStatus
}

// Router builds the chi router for the admin surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(traceAdminSurface)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/cadence/status", s.handleCadenceStatus)
	r.Get("/reviewer/config", s.handleGetReviewerConfig)

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(20, time.Minute))
		r.Put("/reviewer/config", s.handlePutReviewerConfig)
		r.Post("/generate-episode", s.handleGenerateEpisode)
		r.Post("/production/pause", s.handleProductionPause)
		r.Post("/production/resume", s.handleProductionResume)
	})

	return r
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, apiError{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Health.Report(r.Context()))
}

func (s *Server) handleCadenceStatus(w http.ResponseWriter, r *http.Request) {
	queue := QueueStatus{}
	if s.QueueStatusFn != nil {
		queue = s.QueueStatusFn(r.Context())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tick":  s.CadenceTick.String(),
		"queue": queue,
	})
}

func (s *Server) handleGetReviewerConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Reviewer.Get())
}

func (s *Server) handlePutReviewerConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.ReviewerConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "malformed reviewer config: "+err.Error())
		return
	}
	s.Reviewer.Set(cfg)
	writeJSON(w, http.StatusOK, cfg)
}

type generateEpisodeRequest struct {
	GroupID string `json:"group_id"`
	Force   bool   `json:"force"`
}

func (s *Server) handleGenerateEpisode(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context(), "api")

	var req generateEpisodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	groupID, err := ids.Parse(req.GroupID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid group_id: "+err.Error())
		return
	}

	status, err := s.Leases.Status(r.Context(), groupID.String())
	if err != nil {
		logger.Error().Err(err).Msg("failed to check group lease status")
		writeError(w, http.StatusInternalServerError, "failed to check lease status")
		return
	}
	if status.Held {
		writeError(w, http.StatusConflict, "a generation run is already in progress for this group")
		return
	}

	if err := s.Dispatcher.Enqueue(r.Context(), groupID, req.Force); err != nil {
		logger.Error().Err(err).Msg("failed to enqueue episode generation")
		writeError(w, http.StatusServiceUnavailable, "failed to enqueue episode generation: "+err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"group_id": groupID.String(), "status": "queued"})
}

// handleProductionPause acquires the synthetic maintenance lease, causing
// the Review Queue Worker (C8) to observe AnyActive() exactly as it does for
// a real generation run. The Cadence Controller (C6) checks only each
// group's own lease, so it is not paused by this lease.
func (s *Server) handleProductionPause(w http.ResponseWriter, r *http.Request) {
	result, err := s.Leases.Acquire(r.Context(), maintenanceGroupID, maintenanceOwnerToken, maintenanceLeaseTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to pause production: "+err.Error())
		return
	}
	if result == lease.HeldByOther {
		writeJSON(w, http.StatusOK, map[string]string{"status": "already paused"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "paused"})
}

func (s *Server) handleProductionResume(w http.ResponseWriter, r *http.Request) {
	result, err := s.Leases.Release(r.Context(), maintenanceGroupID, maintenanceOwnerToken)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resume production: "+err.Error())
		return
	}
	if result == lease.Absent {
		writeJSON(w, http.StatusOK, map[string]string{"status": "not paused"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resumed"})
}
