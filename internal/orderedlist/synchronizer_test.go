package orderedlist

import (
	"context"
	"errors"
	"testing"

	"menucli/internal/model"
)

type commitCall struct {
	id    int64
	order int
}

func recordingCommit(calls *[]commitCall, acks []model.OrderAck, err error) CommitFunc {
	return func(ctx context.Context, id int64, order int) ([]model.OrderAck, error) {
		*calls = append(*calls, commitCall{id: id, order: order})
		return acks, err
	}
}

func TestSynchronizer_LiftDropCommitsNewIndex(t *testing.T) {
	t.Parallel()

	var calls []commitCall
	s := NewSynchronizer[model.Category](cats(1, 2, 3), recordingCommit(&calls, nil, nil), nil)

	s.Lift(3)
	if id, ok := s.Lifted(); !ok || id != 3 {
		t.Fatalf("expected lifted id 3, got=%d ok=%v", id, ok)
	}
	if err := s.Drop(context.Background(), 1); err != nil {
		t.Fatalf("drop: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("expected one commit, got=%d", len(calls))
	}
	if calls[0].id != 3 || calls[0].order != 0 {
		t.Fatalf("expected commit (id=3, order=0), got=%+v", calls[0])
	}
	if want := []int64{3, 1, 2}; !sameIDs(idsOf(s.List()), want) {
		t.Fatalf("expected order %v, got=%v", want, idsOf(s.List()))
	}
	if _, ok := s.Lifted(); ok {
		t.Fatal("expected lift to be cleared after drop")
	}
}

func TestSynchronizer_DropWithoutLiftIsNoOp(t *testing.T) {
	t.Parallel()

	var calls []commitCall
	s := NewSynchronizer[model.Category](cats(1, 2, 3), recordingCommit(&calls, nil, nil), nil)

	if err := s.Drop(context.Background(), 1); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("expected no commit, got=%d", len(calls))
	}
}

func TestSynchronizer_DropOnSelfSkipsCommit(t *testing.T) {
	t.Parallel()

	var calls []commitCall
	s := NewSynchronizer[model.Category](cats(1, 2, 3), recordingCommit(&calls, nil, nil), nil)

	s.Lift(2)
	if err := s.Drop(context.Background(), 2); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("expected no commit for self-drop, got=%d", len(calls))
	}
	if want := []int64{1, 2, 3}; !sameIDs(idsOf(s.List()), want) {
		t.Fatalf("expected unchanged order, got=%v", idsOf(s.List()))
	}
}

func TestSynchronizer_FailedCommitKeepsOptimisticOrder(t *testing.T) {
	t.Parallel()

	var calls []commitCall
	commitErr := errors.New("backend down")
	s := NewSynchronizer[model.Category](cats(1, 2, 3), recordingCommit(&calls, nil, commitErr), nil)

	s.Lift(3)
	err := s.Drop(context.Background(), 1)
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit error, got=%v", err)
	}
	// No rollback: the screen keeps the order the user produced.
	if want := []int64{3, 1, 2}; !sameIDs(idsOf(s.List()), want) {
		t.Fatalf("expected optimistic order kept, got=%v", idsOf(s.List()))
	}
}

func TestSynchronizer_AcksResortAfterCommit(t *testing.T) {
	t.Parallel()

	var calls []commitCall
	acks := []model.OrderAck{
		{ID: 1, Order: 1},
		{ID: 3, Order: 2},
		{ID: 2, Order: 3},
	}
	s := NewSynchronizer[model.Category](cats(1, 2, 3), recordingCommit(&calls, acks, nil), nil)

	s.Lift(3)
	if err := s.Drop(context.Background(), 1); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if want := []int64{1, 3, 2}; !sameIDs(idsOf(s.List()), want) {
		t.Fatalf("expected ack order %v, got=%v", want, idsOf(s.List()))
	}
}

func TestSynchronizer_ReplaceCancelsDrag(t *testing.T) {
	t.Parallel()

	var calls []commitCall
	s := NewSynchronizer[model.Category](cats(1, 2, 3), recordingCommit(&calls, nil, nil), nil)

	s.Lift(1)
	s.Replace(cats(4, 5))
	if _, ok := s.Lifted(); ok {
		t.Fatal("expected replace to cancel the lift")
	}
	if want := []int64{4, 5}; !sameIDs(idsOf(s.List()), want) {
		t.Fatalf("expected replaced list, got=%v", idsOf(s.List()))
	}
}

func TestSynchronizer_CancelKeepsOrder(t *testing.T) {
	t.Parallel()

	var calls []commitCall
	s := NewSynchronizer[model.Category](cats(1, 2, 3), recordingCommit(&calls, nil, nil), nil)

	s.Lift(2)
	s.Cancel()
	if _, ok := s.Lifted(); ok {
		t.Fatal("expected cancel to clear the lift")
	}
	if err := s.Drop(context.Background(), 1); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("expected no commit after cancel, got=%d", len(calls))
	}
}
