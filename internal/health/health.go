// SPDX-License-Identifier: MIT

// Package health provides health and readiness reporting for the
// orchestrator and the external capabilities it depends on, per
// SPEC_FULL.md §12's per-capability probe requirement.
package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cacheTTL is how long a checker's last result is reused before it is
// probed again, per spec.md §4.9.
const cacheTTL = 10 * time.Second

// Status is the outcome of one checker's probe.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult is one checker's probe outcome.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker probes one dependency (a capability, the store, the lease
// backend). Name identifies it in the aggregate report.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Pinger is the narrow slice of capability.HTTPClient the capability
// checker needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CapabilityChecker probes a single external capability's /health endpoint.
type CapabilityChecker struct {
	name   string
	client Pinger
}

// NewCapabilityChecker builds a Checker for a named capability client.
func NewCapabilityChecker(name string, client Pinger) *CapabilityChecker {
	return &CapabilityChecker{name: name, client: client}
}

func (c *CapabilityChecker) Name() string { return c.name }

func (c *CapabilityChecker) Check(ctx context.Context) CheckResult {
	if err := c.client.Ping(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Message: err.Error()}
	}
	return CheckResult{Status: StatusHealthy}
}

// Report is the aggregate health/readiness payload.
type Report struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// cacheEntry is one checker's cached result.
type cacheEntry struct {
	result CheckResult
	at     time.Time
}

// Manager aggregates Checkers behind a 10s-TTL cache, with concurrent
// probes of the same checker collapsed via singleflight so a readiness
// storm doesn't fan out into N redundant capability calls.
type Manager struct {
	mu       sync.RWMutex
	checkers []Checker
	cache    map[string]cacheEntry
	sfg      singleflight.Group
}

// NewManager builds an empty Manager; register checkers with Register.
func NewManager() *Manager {
	return &Manager{cache: make(map[string]cacheEntry)}
}

// Register adds a Checker to the manager.
func (m *Manager) Register(c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, c)
}

// Report runs (or serves from cache) every registered checker and
// aggregates their statuses into a single Report.
func (m *Manager) Report(ctx context.Context) Report {
	m.mu.RLock()
	checkers := append([]Checker(nil), m.checkers...)
	m.mu.RUnlock()

	checks := make(map[string]CheckResult, len(checkers))
	overall := StatusHealthy
	for _, c := range checkers {
		result := m.checkOne(ctx, c)
		checks[c.Name()] = result
		switch result.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall != StatusUnhealthy {
				overall = StatusDegraded
			}
		}
	}

	return Report{Status: overall, Timestamp: time.Now(), Checks: checks}
}

func (m *Manager) checkOne(ctx context.Context, c Checker) CheckResult {
	m.mu.RLock()
	entry, ok := m.cache[c.Name()]
	m.mu.RUnlock()
	if ok && time.Since(entry.at) < cacheTTL {
		return entry.result
	}

	v, err, _ := m.sfg.Do(c.Name(), func() (interface{}, error) {
		probeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		result := c.Check(probeCtx)

		m.mu.Lock()
		m.cache[c.Name()] = cacheEntry{result: result, at: time.Now()}
		m.mu.Unlock()

		return result, nil
	})
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Message: err.Error()}
	}
	return v.(CheckResult)
}
