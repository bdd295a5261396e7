package storage

import (
	"context"

	"github.com/and161185/orderdesk/internal/config"
	"github.com/and161185/orderdesk/internal/model"
)

type Store interface {
	SaveSnapshot(ctx context.Context, snap model.Snapshot) error
	GetSnapshot(ctx context.Context, viewerID, orderID string) (model.Snapshot, error)
	ListSnapshots(ctx context.Context, viewerID string) ([]model.Snapshot, error)
	DeleteSnapshot(ctx context.Context, viewerID, orderID string) error
	Close() error
}

// New picks the snapshot store from the configuration: Redis, then
// Postgres, then memory.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch {
	case cfg.RedisAddress != "":
		cfg.Logger.Infof("snapshot store: redis at %s", cfg.RedisAddress)
		return NewRedisStorage(ctx, cfg.RedisAddress, cfg.SnapshotTTL)
	case cfg.DatabaseURI != "":
		cfg.Logger.Info("snapshot store: postgres")
		return NewPostgresStorage(ctx, cfg.DatabaseURI)
	}
	cfg.Logger.Warn("snapshot store: in memory, snapshots are lost on restart")
	return NewMemoryStorage(), nil
}
