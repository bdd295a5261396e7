package watch

import (
	"sync"
	"sync/atomic"

	"github.com/and161185/orderdesk/internal/actions"
	"github.com/and161185/orderdesk/internal/errs"
	"github.com/and161185/orderdesk/internal/modal"
	"github.com/and161185/orderdesk/internal/model"
)

type Key struct {
	ViewerID string
	OrderID  string
}

// Session is one open order detail view.
type Session struct {
	key Key

	snapshot atomic.Pointer[model.Snapshot]
	stale    atomic.Bool
	pending  atomic.Bool
	closed   atomic.Bool

	mu    sync.Mutex
	modal modal.Machine
}

func newSession(key Key) *Session {
	return &Session{key: key}
}

func (s *Session) Key() Key {
	return s.key
}

// Snapshot returns the latest order snapshot, or nil before the first
// successful load.
func (s *Session) Snapshot() *model.Snapshot {
	return s.snapshot.Load()
}

// Stale reports that the last refresh failed and the snapshot is the last
// known-good one.
func (s *Session) Stale() bool {
	return s.stale.Load()
}

func (s *Session) Pending() bool {
	return s.pending.Load()
}

func (s *Session) Closed() bool {
	return s.closed.Load()
}

// update installs snap unless the session is closed or already holds a
// snapshot fetched later.
func (s *Session) update(snap *model.Snapshot) bool {
	if s.closed.Load() {
		return false
	}
	for {
		cur := s.snapshot.Load()
		if cur != nil && cur.FetchedAt.After(snap.FetchedAt) {
			return false
		}
		if s.snapshot.CompareAndSwap(cur, snap) {
			s.stale.Store(false)
			return true
		}
	}
}

// beginMutation marks a mutation in flight. A second one is refused until
// the first ends.
func (s *Session) beginMutation() error {
	if !s.pending.CompareAndSwap(false, true) {
		return errs.ErrRequestPending
	}
	return nil
}

func (s *Session) endMutation() {
	s.pending.Store(false)
}

func (s *Session) ActiveModal() modal.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal.Active()
}

func (s *Session) OpenModal(kind modal.Kind, av actions.Availability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal.Open(kind, av)
}

func (s *Session) ConfirmModal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal.Confirm()
}

func (s *Session) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal.Close()
}

func (s *Session) revalidateModal(av actions.Availability) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal.Revalidate(av)
}
