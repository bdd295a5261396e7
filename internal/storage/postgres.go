package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/and161185/orderdesk/internal/errs"
	"github.com/and161185/orderdesk/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage keeps the last known-good order snapshots so that order
// views survive marketplace outages and restarts.
type PostgresStorage struct {
	db *pgxpool.Pool
}

func (store *PostgresStorage) initSchema(ctx context.Context) error {
	const initSchemaQuery = `
	CREATE TABLE IF NOT EXISTS order_snapshots (
		viewer_id TEXT NOT NULL,
		order_id TEXT NOT NULL,
		payload JSONB NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (viewer_id, order_id)
	);
	CREATE INDEX IF NOT EXISTS order_snapshots_viewer_idx ON order_snapshots (viewer_id, fetched_at DESC);`

	_, err := store.db.Exec(ctx, initSchemaQuery)
	return err
}

func NewPostgresStorage(ctx context.Context, databaseURI string) (*PostgresStorage, error) {
	db, err := pgxpool.New(ctx, databaseURI)
	if err != nil {
		return nil, err
	}

	storage := &PostgresStorage{db: db}

	if err := storage.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := storage.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

func (store *PostgresStorage) Ping(ctx context.Context) error {
	return store.db.Ping(ctx)
}

func (store *PostgresStorage) Close() error {
	store.db.Close()
	return nil
}

func (store *PostgresStorage) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	const query = `
		INSERT INTO order_snapshots (viewer_id, order_id, payload, fetched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (viewer_id, order_id)
		DO UPDATE SET payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at
		WHERE order_snapshots.fetched_at <= EXCLUDED.fetched_at`

	payload, err := json.Marshal(snap.Order)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = store.db.Exec(ctx, query, snap.ViewerID, snap.Order.ID, payload, snap.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

func (store *PostgresStorage) GetSnapshot(ctx context.Context, viewerID, orderID string) (model.Snapshot, error) {
	const query = `SELECT payload, fetched_at FROM order_snapshots WHERE viewer_id = $1 AND order_id = $2`

	var payload []byte
	var fetchedAt time.Time
	err := store.db.QueryRow(ctx, query, viewerID, orderID).Scan(&payload, &fetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Snapshot{}, errs.ErrSnapshotNotFound
		}
		return model.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}

	return decodeSnapshot(viewerID, payload, fetchedAt)
}

func (store *PostgresStorage) ListSnapshots(ctx context.Context, viewerID string) ([]model.Snapshot, error) {
	const query = `
		SELECT payload, fetched_at
		FROM order_snapshots
		WHERE viewer_id = $1
		ORDER BY fetched_at DESC`

	rows, err := store.db.Query(ctx, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var list []model.Snapshot
	for rows.Next() {
		var payload []byte
		var fetchedAt time.Time
		if err := rows.Scan(&payload, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap, err := decodeSnapshot(viewerID, payload, fetchedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return list, nil
}

func (store *PostgresStorage) DeleteSnapshot(ctx context.Context, viewerID, orderID string) error {
	const query = `DELETE FROM order_snapshots WHERE viewer_id = $1 AND order_id = $2`

	if _, err := store.db.Exec(ctx, query, viewerID, orderID); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}

	return nil
}

func decodeSnapshot(viewerID string, payload []byte, fetchedAt time.Time) (model.Snapshot, error) {
	snap := model.Snapshot{ViewerID: viewerID, FetchedAt: fetchedAt.UTC()}
	if err := json.Unmarshal(payload, &snap.Order); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
