// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/config"
	"github.com/elroyic/Podcast-Generator-sub001/internal/health"
	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/lease"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	called  bool
	groupID ids.ID
}

func (f *fakeDispatcher) Enqueue(_ context.Context, groupID ids.ID, _ bool) error {
	f.called = true
	f.groupID = groupID
	return nil
}

func newTestServer() (*Server, *fakeDispatcher) {
	dispatcher := &fakeDispatcher{}
	s := &Server{
		Dispatcher:  dispatcher,
		Leases:      lease.NewMemoryManager(),
		Reviewer:    config.NewReviewerManager(config.ReviewerConfig{LightThreshold: 0.75, HeavyThreshold: 0.5}, ""),
		Health:      health.NewManager(),
		CadenceTick: 30 * time.Second,
	}
	return s, dispatcher
}

func TestGenerateEpisode_AcceptsValidGroup(t *testing.T) {
	s, dispatcher := newTestServer()
	groupID := ids.New()
	body, _ := json.Marshal(generateEpisodeRequest{GroupID: groupID.String()})

	req := httptest.NewRequest(http.MethodPost, "/generate-episode", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.True(t, dispatcher.called)
	require.Equal(t, groupID, dispatcher.groupID)
}

func TestGenerateEpisode_ConflictsWhenLeaseHeld(t *testing.T) {
	s, _ := newTestServer()
	groupID := ids.New()
	_, err := s.Leases.Acquire(context.Background(), groupID.String(), "other-owner", time.Hour)
	require.NoError(t, err)

	body, _ := json.Marshal(generateEpisodeRequest{GroupID: groupID.String()})
	req := httptest.NewRequest(http.MethodPost, "/generate-episode", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGenerateEpisode_RejectsMalformedGroupID(t *testing.T) {
	s, _ := newTestServer()
	body, _ := json.Marshal(generateEpisodeRequest{GroupID: "not-a-uuid"})
	req := httptest.NewRequest(http.MethodPost, "/generate-episode", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewerConfig_GetAndPut(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/reviewer/config", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	newCfg := config.ReviewerConfig{LightThreshold: 0.9, HeavyThreshold: 0.6, PauseBackoff: time.Second}
	body, _ := json.Marshal(newCfg)
	putReq := httptest.NewRequest(http.MethodPut, "/reviewer/config", bytes.NewReader(body))
	putRec := httptest.NewRecorder()
	s.Router().ServeHTTP(putRec, putReq)
	require.Equal(t, http.StatusOK, putRec.Code)

	require.Equal(t, 0.9, s.Reviewer.Get().LightThreshold)
}

func TestRouter_HealthAndMetricsServeThroughTracingMiddleware(t *testing.T) {
	s, _ := newTestServer()

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}

func TestProductionPauseAndResume(t *testing.T) {
	s, _ := newTestServer()

	pauseReq := httptest.NewRequest(http.MethodPost, "/production/pause", nil)
	pauseRec := httptest.NewRecorder()
	s.Router().ServeHTTP(pauseRec, pauseReq)
	require.Equal(t, http.StatusOK, pauseRec.Code)

	active, err := s.Leases.AnyActive(context.Background())
	require.NoError(t, err)
	require.True(t, active)

	resumeReq := httptest.NewRequest(http.MethodPost, "/production/resume", nil)
	resumeRec := httptest.NewRecorder()
	s.Router().ServeHTTP(resumeRec, resumeReq)
	require.Equal(t, http.StatusOK, resumeRec.Code)

	active, err = s.Leases.AnyActive(context.Background())
	require.NoError(t, err)
	require.False(t, active)
}
