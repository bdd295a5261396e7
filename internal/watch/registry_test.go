package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/and161185/orderdesk/internal/errs"
	"github.com/and161185/orderdesk/internal/mocks"
	"github.com/and161185/orderdesk/internal/modal"
	"github.com/and161185/orderdesk/internal/model"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// clock hands out strictly increasing times.
type clock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

func setup(t *testing.T) (*Registry, *mocks.MockOrderSource, *mocks.MockSnapshotStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	source := mocks.NewMockOrderSource(ctrl)
	store := mocks.NewMockSnapshotStore(ctrl)

	c := &clock{cur: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	r := NewRegistry(source, store, zaptest.NewLogger(t).Sugar(), Options{
		DeepLinkAttempts: 3,
		DeepLinkInterval: time.Millisecond,
		Now:              c.Now,
	})
	return r, source, store
}

func deliveredOrder() *model.Order {
	return &model.Order{
		ID:             "o-1",
		ClientID:       "C1",
		ProfessionalID: "P1",
		Status:         model.Delivered,
		DeliveredDate:  "2024-04-30T10:00:00Z",
	}
}

func TestOpen(t *testing.T) {
	r, source, store := setup(t)
	ctx := context.Background()

	source.EXPECT().GetOrder(gomock.Any(), "C1", "o-1").Return(deliveredOrder(), nil)
	store.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, snap model.Snapshot) error {
			require.Equal(t, "C1", snap.ViewerID)
			require.Equal(t, "o-1", snap.Order.ID)
			return nil
		})

	s, err := r.Open(ctx, "C1", "o-1")
	require.NoError(t, err)
	require.NotNil(t, s.Snapshot())
	require.False(t, s.Stale())
	require.Equal(t, Key{ViewerID: "C1", OrderID: "o-1"}, s.Key())

	got, ok := r.Get("C1", "o-1")
	require.True(t, ok)
	require.Same(t, s, got)
}

func TestOpen_FallsBackToStoredSnapshot(t *testing.T) {
	r, source, store := setup(t)
	ctx := context.Background()

	stored := model.Snapshot{ViewerID: "C1", Order: *deliveredOrder(), FetchedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)}
	source.EXPECT().GetOrder(gomock.Any(), "C1", "o-1").Return(nil, errors.New("connection refused"))
	store.EXPECT().GetSnapshot(gomock.Any(), "C1", "o-1").Return(stored, nil)

	s, err := r.Open(ctx, "C1", "o-1")
	require.NoError(t, err)
	require.True(t, s.Stale())
	require.Equal(t, stored.FetchedAt, s.Snapshot().FetchedAt)
}

func TestOpen_NothingToServe(t *testing.T) {
	r, source, store := setup(t)
	ctx := context.Background()

	upstream := errors.New("connection refused")
	source.EXPECT().GetOrder(gomock.Any(), "C1", "o-1").Return(nil, upstream)
	store.EXPECT().GetSnapshot(gomock.Any(), "C1", "o-1").Return(model.Snapshot{}, errs.ErrSnapshotNotFound)

	_, err := r.Open(ctx, "C1", "o-1")
	require.ErrorIs(t, err, upstream)
	_, ok := r.Get("C1", "o-1")
	require.False(t, ok)
}

func TestOpen_NotFoundDropsSnapshot(t *testing.T) {
	r, source, store := setup(t)
	ctx := context.Background()

	source.EXPECT().GetOrder(gomock.Any(), "C1", "gone").Return(nil, errs.ErrOrderNotFound)
	store.EXPECT().DeleteSnapshot(gomock.Any(), "C1", "gone").Return(nil)

	_, err := r.Open(ctx, "C1", "gone")
	require.ErrorIs(t, err, errs.ErrOrderNotFound)
	require.Empty(t, r.Sessions())
}

func TestRefresh_DropsResponseAfterClose(t *testing.T) {
	r, source, store := setup(t)
	ctx := context.Background()

	gomock.InOrder(
		source.EXPECT().GetOrder(gomock.Any(), "C1", "o-1").Return(deliveredOrder(), nil),
		source.EXPECT().GetOrder(gomock.Any(), "C1", "o-1").DoAndReturn(
			func(context.Context, string, string) (*model.Order, error) {
				r.Close("C1", "o-1")
				o := deliveredOrder()
				o.Status = model.Completed
				return o, nil
			}),
	)
	store.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	s, err := r.Open(ctx, "C1", "o-1")
	require.NoError(t, err)

	require.NoError(t, r.Refresh(ctx, s))
	require.True(t, s.Closed())
	require.True(t, s.Snapshot().Order.Status.Is(model.Delivered))
}

func TestSessionUpdate_NewerSnapshotWins(t *testing.T) {
	s := newSession(Key{ViewerID: "C1", OrderID: "o-1"})
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	newer := &model.Snapshot{Order: model.Order{Status: model.Completed}, FetchedAt: base.Add(time.Minute)}
	older := &model.Snapshot{Order: model.Order{Status: model.Delivered}, FetchedAt: base}

	require.True(t, s.update(newer))
	require.False(t, s.update(older))
	require.True(t, s.Snapshot().Order.Status.Is(model.Completed))
}

func TestRefresh_ClosesModalThatBecameUnavailable(t *testing.T) {
	r, source, store := setup(t)
	ctx := context.Background()

	completed := deliveredOrder()
	completed.Status = model.Completed
	gomock.InOrder(
		source.EXPECT().GetOrder(gomock.Any(), "C1", "o-1").Return(deliveredOrder(), nil),
		source.EXPECT().GetOrder(gomock.Any(), "C1", "o-1").Return(completed, nil),
	)
	store.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	s, err := r.Open(ctx, "C1", "o-1")
	require.NoError(t, err)
	require.NoError(t, s.OpenModal(modal.ApproveDelivery, r.Availability(s)))

	require.NoError(t, r.Refresh(ctx, s))
	require.Equal(t, modal.None, s.ActiveModal())
}

func TestMutate(t *testing.T) {
	r, source, store := setup(t)
	ctx := context.Background()

	source.EXPECT().GetOrder(gomock.Any(), "C1", "o-1").Return(deliveredOrder(), nil).Times(2)
	store.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	s, err := r.Open(ctx, "C1", "o-1")
	require.NoError(t, err)
	require.NoError(t, s.OpenModal(modal.ApproveDelivery, r.Availability(s)))

	err = r.Mutate(ctx, s, func(ctx context.Context) error {
		require.True(t, s.Pending())
		nested := r.Mutate(ctx, s, func(context.Context) error {
			t.Fatal("second mutation must not run")
			return nil
		})
		require.ErrorIs(t, nested, errs.ErrRequestPending)
		return nil
	})
	require.NoError(t, err)
	require.False(t, s.Pending())
	require.Equal(t, modal.None, s.ActiveModal())
}

func TestMutate_FailureKeepsModal(t *testing.T) {
	r, source, store := setup(t)
	ctx := context.Background()

	source.EXPECT().GetOrder(gomock.Any(), "C1", "o-1").Return(deliveredOrder(), nil)
	store.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil)

	s, err := r.Open(ctx, "C1", "o-1")
	require.NoError(t, err)
	require.NoError(t, s.OpenModal(modal.Revision, r.Availability(s)))

	failure := errors.New("marketplace rejected the request")
	err = r.Mutate(ctx, s, func(context.Context) error { return failure })
	require.ErrorIs(t, err, failure)
	require.False(t, s.Pending())
	require.Equal(t, modal.Revision, s.ActiveModal())
}

func TestListOrders_FallsBackToStore(t *testing.T) {
	r, source, store := setup(t)
	ctx := context.Background()

	source.EXPECT().ListOrders(gomock.Any(), "C1").Return(nil, errors.New("timeout"))
	store.EXPECT().ListSnapshots(gomock.Any(), "C1").Return([]model.Snapshot{
		{ViewerID: "C1", Order: model.Order{ID: "b"}},
		{ViewerID: "C1", Order: model.Order{ID: "a"}},
	}, nil)

	orders, stale, err := r.ListOrders(ctx, "C1")
	require.NoError(t, err)
	require.True(t, stale)
	require.Len(t, orders, 2)
	require.Equal(t, "b", orders[0].ID)
}

func TestListOrders_Fresh(t *testing.T) {
	r, source, _ := setup(t)

	source.EXPECT().ListOrders(gomock.Any(), "C1").Return([]model.Order{{ID: "a"}}, nil)

	orders, stale, err := r.ListOrders(context.Background(), "C1")
	require.NoError(t, err)
	require.False(t, stale)
	require.Len(t, orders, 1)
}

func TestResolveDeepLink(t *testing.T) {
	r, source, _ := setup(t)

	gomock.InOrder(
		source.EXPECT().ListOrders(gomock.Any(), "C1").Return([]model.Order{{ID: "old"}}, nil),
		source.EXPECT().ListOrders(gomock.Any(), "C1").Return(nil, errors.New("timeout")),
		source.EXPECT().ListOrders(gomock.Any(), "C1").Return([]model.Order{{ID: "old"}, {ID: "new"}}, nil),
	)

	order, err := r.ResolveDeepLink(context.Background(), "C1", "new")
	require.NoError(t, err)
	require.Equal(t, "new", order.ID)
}

func TestResolveDeepLink_GivesUp(t *testing.T) {
	r, source, _ := setup(t)

	source.EXPECT().ListOrders(gomock.Any(), "C1").Return([]model.Order{{ID: "old"}}, nil).Times(3)

	_, err := r.ResolveDeepLink(context.Background(), "C1", "new")
	require.ErrorIs(t, err, errs.ErrOrderNotFound)
}

func TestResolveDeepLink_Cancelled(t *testing.T) {
	r, source, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())

	source.EXPECT().ListOrders(gomock.Any(), "C1").DoAndReturn(
		func(context.Context, string) ([]model.Order, error) {
			cancel()
			return nil, nil
		})

	_, err := r.ResolveDeepLink(ctx, "C1", "new")
	require.ErrorIs(t, err, context.Canceled)
}
