// Package watch keeps the order detail sessions that buyers have open and
// refreshes their snapshots from the marketplace.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/and161185/orderdesk/internal/actions"
	"github.com/and161185/orderdesk/internal/errs"
	"github.com/and161185/orderdesk/internal/model"
	"go.uber.org/zap"
)

//go:generate mockgen -source=registry.go -destination=../mocks/watch_mocks.go -package=mocks

type OrderSource interface {
	GetOrder(ctx context.Context, viewerID, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context, viewerID string) ([]model.Order, error)
}

type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap model.Snapshot) error
	GetSnapshot(ctx context.Context, viewerID, orderID string) (model.Snapshot, error)
	ListSnapshots(ctx context.Context, viewerID string) ([]model.Snapshot, error)
	DeleteSnapshot(ctx context.Context, viewerID, orderID string) error
}

type Options struct {
	DeepLinkAttempts int
	DeepLinkInterval time.Duration
	Now              func() time.Time
}

func DefaultOptions() Options {
	return Options{
		DeepLinkAttempts: 10,
		DeepLinkInterval: 500 * time.Millisecond,
		Now:              time.Now,
	}
}

type Registry struct {
	source OrderSource
	store  SnapshotStore
	logger *zap.SugaredLogger
	opts   Options

	mu       sync.RWMutex
	sessions map[Key]*Session
}

func NewRegistry(source OrderSource, store SnapshotStore, logger *zap.SugaredLogger, opts Options) *Registry {
	def := DefaultOptions()
	if opts.DeepLinkAttempts <= 0 {
		opts.DeepLinkAttempts = def.DeepLinkAttempts
	}
	if opts.DeepLinkInterval <= 0 {
		opts.DeepLinkInterval = def.DeepLinkInterval
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	return &Registry{
		source:   source,
		store:    store,
		logger:   logger,
		opts:     opts,
		sessions: make(map[Key]*Session),
	}
}

func (r *Registry) Now() time.Time {
	return r.opts.Now()
}

// Open returns the viewer's session for orderID, creating and loading it if
// needed. When the marketplace is unreachable the stored snapshot is served
// and the session is marked stale.
func (r *Registry) Open(ctx context.Context, viewerID, orderID string) (*Session, error) {
	key := Key{ViewerID: viewerID, OrderID: orderID}

	r.mu.Lock()
	s, ok := r.sessions[key]
	if !ok {
		s = newSession(key)
		r.sessions[key] = s
	}
	r.mu.Unlock()

	err := r.Refresh(ctx, s)
	if err == nil {
		return s, nil
	}
	if errors.Is(err, errs.ErrOrderNotFound) {
		r.Close(viewerID, orderID)
		if delErr := r.store.DeleteSnapshot(ctx, viewerID, orderID); delErr != nil {
			r.logger.Errorf("delete snapshot %s/%s: %v", viewerID, orderID, delErr)
		}
		return nil, err
	}

	if s.Snapshot() == nil {
		snap, storeErr := r.store.GetSnapshot(ctx, viewerID, orderID)
		if storeErr != nil {
			r.Close(viewerID, orderID)
			return nil, err
		}
		s.update(&snap)
	}
	s.stale.Store(true)
	r.logger.Warnf("serving stored snapshot of %s for %s: %v", orderID, viewerID, err)
	return s, nil
}

func (r *Registry) Get(viewerID, orderID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[Key{ViewerID: viewerID, OrderID: orderID}]
	return s, ok
}

// Close ends a session. Refreshes still in flight for it are discarded.
func (r *Registry) Close(viewerID, orderID string) {
	key := Key{ViewerID: viewerID, OrderID: orderID}
	r.mu.Lock()
	s, ok := r.sessions[key]
	delete(r.sessions, key)
	r.mu.Unlock()
	if ok {
		s.closed.Store(true)
	}
}

// Sessions returns the open sessions in a stable order.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	list := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].key.ViewerID != list[j].key.ViewerID {
			return list[i].key.ViewerID < list[j].key.ViewerID
		}
		return list[i].key.OrderID < list[j].key.OrderID
	})
	return list
}

// Refresh fetches the order again. A response that arrives after the
// session was closed, or after a newer snapshot, is dropped.
func (r *Registry) Refresh(ctx context.Context, s *Session) error {
	requested := r.opts.Now()
	order, err := r.source.GetOrder(ctx, s.key.ViewerID, s.key.OrderID)
	if err != nil {
		if s.Snapshot() != nil {
			s.stale.Store(true)
		}
		return err
	}

	snap := &model.Snapshot{ViewerID: s.key.ViewerID, Order: *order, FetchedAt: requested}
	if !s.update(snap) {
		return nil
	}

	if err := r.store.SaveSnapshot(ctx, *snap); err != nil {
		r.logger.Errorf("save snapshot %s/%s: %v", s.key.ViewerID, s.key.OrderID, err)
	}

	if s.revalidateModal(r.Availability(s)) {
		r.logger.Infof("closed modal on %s for %s: action no longer available", s.key.OrderID, s.key.ViewerID)
	}
	return nil
}

// Availability resolves the viewer's actions on the session's current
// snapshot.
func (r *Registry) Availability(s *Session) actions.Availability {
	snap := s.Snapshot()
	if snap == nil {
		return actions.Availability{}
	}
	return actions.Resolve(&snap.Order, s.key.ViewerID, r.opts.Now())
}

// Mutate runs one mutation for the session. Concurrent mutations are
// refused. On success the modal is closed and the snapshot refreshed; on
// failure the modal stays open so the buyer can retry.
func (r *Registry) Mutate(ctx context.Context, s *Session, fn func(ctx context.Context) error) error {
	if err := s.beginMutation(); err != nil {
		return err
	}
	defer s.endMutation()

	if err := fn(ctx); err != nil {
		return err
	}

	s.CloseModal()
	if err := r.Refresh(ctx, s); err != nil {
		r.logger.Warnf("refresh %s after mutation: %v", s.key.OrderID, err)
	}
	return nil
}

// ListOrders lists the viewer's orders. When the marketplace fails, the
// stored snapshots are returned with stale set.
func (r *Registry) ListOrders(ctx context.Context, viewerID string) (orders []model.Order, stale bool, err error) {
	orders, err = r.source.ListOrders(ctx, viewerID)
	if err == nil {
		return orders, false, nil
	}

	snaps, storeErr := r.store.ListSnapshots(ctx, viewerID)
	if storeErr != nil || len(snaps) == 0 {
		return nil, false, err
	}
	r.logger.Warnf("serving %d stored orders for %s: %v", len(snaps), viewerID, err)
	orders = make([]model.Order, 0, len(snaps))
	for _, snap := range snaps {
		orders = append(orders, snap.Order)
	}
	return orders, true, nil
}

// ResolveDeepLink waits for orderID to show up in the viewer's order list.
// A freshly placed order can take a moment to appear.
func (r *Registry) ResolveDeepLink(ctx context.Context, viewerID, orderID string) (*model.Order, error) {
	var lastErr error
	for attempt := 1; attempt <= r.opts.DeepLinkAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		orders, err := r.source.ListOrders(ctx, viewerID)
		if err == nil {
			lastErr = nil
			for i := range orders {
				if orders[i].ID == orderID {
					return &orders[i], nil
				}
			}
		} else {
			lastErr = err
			r.logger.Debugf("deep link %s attempt %d: %v", orderID, attempt, err)
		}

		if attempt == r.opts.DeepLinkAttempts {
			break
		}
		timer := time.NewTimer(r.opts.DeepLinkInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("resolve %s: %w", orderID, lastErr)
	}
	return nil, fmt.Errorf("resolve %s: %w", orderID, errs.ErrOrderNotFound)
}
