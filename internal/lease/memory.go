// SPDX-License-Identifier: MIT

package lease

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	owner     string
	expiresAt time.Time
}

// MemoryManager is an in-process lease manager for single-node deployments
// and tests. Safe for concurrent use.
type MemoryManager struct {
	mu     sync.Mutex
	leases map[string]entry
	clock  clock
}

// NewMemoryManager creates an in-memory lease manager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{
		leases: make(map[string]entry),
		clock:  realClock{},
	}
}

func (m *MemoryManager) Acquire(_ context.Context, groupID, ownerToken string, ttl time.Duration) (Result, error) {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.leases[groupID]; ok && e.expiresAt.After(now) {
		if e.owner != ownerToken {
			return HeldByOther, nil
		}
	}
	m.leases[groupID] = entry{owner: ownerToken, expiresAt: now.Add(ttl)}
	return Acquired, nil
}

func (m *MemoryManager) Release(_ context.Context, groupID, ownerToken string) (ReleaseResult, error) {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.leases[groupID]
	if !ok || !e.expiresAt.After(now) {
		return Absent, nil
	}
	if e.owner != ownerToken {
		return NotOwner, nil
	}
	delete(m.leases, groupID)
	return Released, nil
}

func (m *MemoryManager) Status(_ context.Context, groupID string) (Status, error) {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.leases[groupID]
	if !ok || !e.expiresAt.After(now) {
		return Status{Held: false}, nil
	}
	return Status{Held: true, Holder: e.owner, ExpiresAt: e.expiresAt}, nil
}

func (m *MemoryManager) AnyActive(_ context.Context) (bool, error) {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.leases {
		if e.expiresAt.After(now) {
			return true, nil
		}
	}
	return false, nil
}
