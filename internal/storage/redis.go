package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/and161185/orderdesk/internal/errs"
	"github.com/and161185/orderdesk/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisStorage caches snapshots as JSON values that expire after ttl. Each
// viewer also has a set of the order ids cached for them.
type RedisStorage struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStorage(ctx context.Context, addr string, ttl time.Duration) (*RedisStorage, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStorage{rdb: rdb, ttl: ttl}, nil
}

func snapshotKey(viewerID, orderID string) string {
	return "orderdesk:snapshot:" + viewerID + ":" + orderID
}

func viewerKey(viewerID string) string {
	return "orderdesk:viewer:" + viewerID
}

func (store *RedisStorage) Close() error {
	return store.rdb.Close()
}

func (store *RedisStorage) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	pipe := store.rdb.TxPipeline()
	pipe.Set(ctx, snapshotKey(snap.ViewerID, snap.Order.ID), data, store.ttl)
	pipe.SAdd(ctx, viewerKey(snap.ViewerID), snap.Order.ID)
	pipe.Expire(ctx, viewerKey(snap.ViewerID), store.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (store *RedisStorage) GetSnapshot(ctx context.Context, viewerID, orderID string) (model.Snapshot, error) {
	data, err := store.rdb.Get(ctx, snapshotKey(viewerID, orderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Snapshot{}, errs.ErrSnapshotNotFound
		}
		return model.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns the viewer's cached snapshots. Ids whose value has
// expired are pruned from the viewer set.
func (store *RedisStorage) ListSnapshots(ctx context.Context, viewerID string) ([]model.Snapshot, error) {
	ids, err := store.rdb.SMembers(ctx, viewerKey(viewerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	var list []model.Snapshot
	for _, id := range ids {
		snap, err := store.GetSnapshot(ctx, viewerID, id)
		if errors.Is(err, errs.ErrSnapshotNotFound) {
			if err := store.rdb.SRem(ctx, viewerKey(viewerID), id).Err(); err != nil {
				return nil, fmt.Errorf("prune snapshot %s: %w", id, err)
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		list = append(list, snap)
	}
	sortByFetched(list)
	return list, nil
}

func (store *RedisStorage) DeleteSnapshot(ctx context.Context, viewerID, orderID string) error {
	pipe := store.rdb.TxPipeline()
	pipe.Del(ctx, snapshotKey(viewerID, orderID))
	pipe.SRem(ctx, viewerKey(viewerID), orderID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
