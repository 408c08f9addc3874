package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps snapshots in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]*Snapshot
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]*Snapshot)}
}

func (m *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := snap.prepare(); err != nil {
		return err
	}
	cp := *snap
	cp.Document = append([]byte(nil), snap.Document...)

	m.mu.Lock()
	m.snaps[snap.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snaps[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *snap
	return &cp, nil
}

func (m *MemoryStore) List(ctx context.Context, typeName string) ([]*Snapshot, error) {
	m.mu.RLock()
	out := make([]*Snapshot, 0, len(m.snaps))
	for _, snap := range m.snaps {
		if typeName != "" && snap.Type != typeName {
			continue
		}
		cp := *snap
		out = append(out, &cp)
	}
	m.mu.RUnlock()

	sortSnapshots(out)
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.snaps[id]; !ok {
		return ErrNotFound
	}
	delete(m.snaps, id)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func sortSnapshots(snaps []*Snapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].CreatedAt.Before(snaps[j].CreatedAt)
		}
		return snaps[i].ID < snaps[j].ID
	})
}
