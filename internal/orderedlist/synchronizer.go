package orderedlist

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"menucli/internal/model"
)

// CommitFunc informs the server of the moved entity's new position and
// returns the authoritative order rows the server touched.
type CommitFunc func(ctx context.Context, id int64, order int) ([]model.OrderAck, error)

// Synchronizer owns one interactively orderable list (the categories of a
// store, or the items of one category) plus the lifted-item marker of an
// in-flight drag gesture.
//
// Drop applies the local reorder synchronously before dispatching the
// commit, so the rendered order is never stale while the network is slow.
// A failed commit is surfaced but the optimistic order is kept; the list
// converges again on the next full fetch.
type Synchronizer[T Orderable] struct {
	mu     sync.Mutex
	list   []T
	commit CommitFunc
	log    *zap.Logger

	activeID int64
	lifted   bool
}

func NewSynchronizer[T Orderable](list []T, commit CommitFunc, log *zap.Logger) *Synchronizer[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer[T]{
		list:   append([]T(nil), list...),
		commit: commit,
		log:    log,
	}
}

// List returns the currently rendered order.
func (s *Synchronizer[T]) List() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.list...)
}

// Replace swaps in a freshly fetched list (scope switch or reload). Any
// in-flight drag is cancelled.
func (s *Synchronizer[T]) Replace(list []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append([]T(nil), list...)
	s.lifted = false
}

// Lift marks id as the dragged entity. Visual only; no order mutation.
func (s *Synchronizer[T]) Lift(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
	s.lifted = true
}

// Lifted reports the currently dragged entity, if any.
func (s *Synchronizer[T]) Lifted() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.lifted
}

// Cancel clears the lifted marker without touching the order.
func (s *Synchronizer[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lifted = false
}

// Drop completes the drag over overID: reorder locally, then commit the
// moved entity's new index. Dropping without a lift, or onto itself, is a
// no-op. The commit error (if any) is returned for the caller to surface;
// the local order is not rolled back.
func (s *Synchronizer[T]) Drop(ctx context.Context, overID int64) error {
	s.mu.Lock()
	if !s.lifted {
		s.mu.Unlock()
		return nil
	}
	id := s.activeID
	s.lifted = false

	next, movedOK := Reorder(s.list, id, overID)
	s.list = next
	newIndex := IndexOf(next, id)
	s.mu.Unlock()

	if !movedOK {
		return nil
	}

	acks, err := s.commit(ctx, id, newIndex)
	if err != nil {
		s.log.Warn("order commit failed; keeping optimistic order",
			zap.Int64("id", id),
			zap.Int("index", newIndex),
			zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.list = ApplyAcks(s.list, acks)
	s.mu.Unlock()
	return nil
}
