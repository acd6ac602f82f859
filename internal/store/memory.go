// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"sync"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
)

// MemoryStore is an in-memory Store intended for tests and local iteration.
// Not durable.
type MemoryStore struct {
	mu sync.RWMutex

	feeds       map[ids.ID]*model.Feed
	articles    map[ids.ID]*model.Article
	groups      map[ids.ID]*model.Group
	collections map[ids.ID]*model.Collection
	snapshots   map[ids.ID]*model.Snapshot
	episodes    map[ids.ID]*model.Episode
	audioFiles  map[ids.ID]*model.AudioFile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		feeds:       make(map[ids.ID]*model.Feed),
		articles:    make(map[ids.ID]*model.Article),
		groups:      make(map[ids.ID]*model.Group),
		collections: make(map[ids.ID]*model.Collection),
		snapshots:   make(map[ids.ID]*model.Snapshot),
		episodes:    make(map[ids.ID]*model.Episode),
		audioFiles:  make(map[ids.ID]*model.AudioFile),
	}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) PutFeed(_ context.Context, f *model.Feed) error {
	cp := *f
	m.mu.Lock()
	m.feeds[f.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetFeed(_ context.Context, id ids.ID) (*model.Feed, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.feeds[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *MemoryStore) ListActiveFeeds(_ context.Context) ([]*model.Feed, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Feed, 0, len(m.feeds))
	for _, f := range m.feeds {
		if f.Active {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryStore) PutArticle(_ context.Context, a *model.Article) error {
	cp := *a
	m.mu.Lock()
	m.articles[a.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetArticle(_ context.Context, id ids.ID) (*model.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) UpdateArticle(_ context.Context, id ids.ID, fn func(*model.Article) error) (*model.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	if err := fn(&cp); err != nil {
		return nil, err
	}
	m.articles[id] = &cp
	out := cp
	return &out, nil
}

func (m *MemoryStore) ListUnassigned(_ context.Context, feedIDs []ids.ID) ([]*model.Article, error) {
	wanted := make(map[ids.ID]bool, len(feedIDs))
	for _, id := range feedIDs {
		wanted[id] = true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Article, 0)
	for _, a := range m.articles {
		if a.HasCollection() {
			continue
		}
		if len(wanted) > 0 && !wanted[a.FeedID] {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryStore) PutGroup(_ context.Context, g *model.Group) error {
	cp := *g
	m.mu.Lock()
	m.groups[g.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetGroup(_ context.Context, id ids.ID) (*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *MemoryStore) ListGroups(_ context.Context) ([]*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Group, 0, len(m.groups))
	for _, g := range m.groups {
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryStore) PutCollection(_ context.Context, c *model.Collection) error {
	cp := *c
	m.mu.Lock()
	m.collections[c.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetCollection(_ context.Context, id ids.ID) (*model.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryStore) GetOpenCollection(_ context.Context, groupID ids.ID) (*model.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.collections {
		if c.GroupID != groupID {
			continue
		}
		if c.Status == model.CollectionBuilding || c.Status == model.CollectionReady {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) GetBuildingCollection(_ context.Context, groupID ids.ID) (*model.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.collections {
		if c.GroupID == groupID && c.Status == model.CollectionBuilding {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) GetReadyCollection(_ context.Context, groupID ids.ID) (*model.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.collections {
		if c.GroupID == groupID && c.Status == model.CollectionReady {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) ListReady(_ context.Context) ([]*model.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Collection, 0)
	for _, c := range m.collections {
		if c.Status == model.CollectionReady {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryStore) PutSnapshot(_ context.Context, s *model.Snapshot) error {
	cp := *s
	m.mu.Lock()
	m.snapshots[s.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetSnapshot(_ context.Context, id ids.ID) (*model.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) PutEpisode(_ context.Context, e *model.Episode) error {
	cp := *e
	m.mu.Lock()
	m.episodes[e.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetEpisode(_ context.Context, id ids.ID) (*model.Episode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.episodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *MemoryStore) ListGenerating(_ context.Context) ([]*model.Episode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Episode, 0)
	for _, e := range m.episodes {
		if e.Status == model.EpisodeGenerating {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryStore) PutAudioFile(_ context.Context, a *model.AudioFile) error {
	cp := *a
	m.mu.Lock()
	m.audioFiles[a.ID] = &cp
	m.mu.Unlock()
	return nil
}
