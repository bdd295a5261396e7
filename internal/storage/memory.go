package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/and161185/orderdesk/internal/errs"
	"github.com/and161185/orderdesk/internal/model"
)

type snapshotID struct {
	viewer string
	order  string
}

// MemoryStorage keeps snapshots in process. It is used when no database is
// configured and in tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	snaps map[snapshotID]model.Snapshot
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{snaps: make(map[snapshotID]model.Snapshot)}
}

func (store *MemoryStorage) Close() error {
	return nil
}

func (store *MemoryStorage) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	id := snapshotID{snap.ViewerID, snap.Order.ID}
	if prev, ok := store.snaps[id]; ok && prev.FetchedAt.After(snap.FetchedAt) {
		return nil
	}
	store.snaps[id] = snap
	return nil
}

func (store *MemoryStorage) GetSnapshot(ctx context.Context, viewerID, orderID string) (model.Snapshot, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	snap, ok := store.snaps[snapshotID{viewerID, orderID}]
	if !ok {
		return model.Snapshot{}, errs.ErrSnapshotNotFound
	}
	return snap, nil
}

func (store *MemoryStorage) ListSnapshots(ctx context.Context, viewerID string) ([]model.Snapshot, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	var list []model.Snapshot
	for id, snap := range store.snaps {
		if id.viewer == viewerID {
			list = append(list, snap)
		}
	}
	sortByFetched(list)
	return list, nil
}

func (store *MemoryStorage) DeleteSnapshot(ctx context.Context, viewerID, orderID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.snaps, snapshotID{viewerID, orderID})
	return nil
}

// sortByFetched orders snapshots newest first, ties by order id.
func sortByFetched(list []model.Snapshot) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].FetchedAt.Equal(list[j].FetchedAt) {
			return list[i].FetchedAt.After(list[j].FetchedAt)
		}
		return list[i].Order.ID < list[j].Order.ID
	})
}
