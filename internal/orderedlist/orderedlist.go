// Package orderedlist reorders a displayed sequence of entities under
// direct-manipulation gestures, optimistically: the local order changes
// before the server confirms, and the server's answer re-sorts it afterwards.
package orderedlist

import (
	"sort"

	"menucli/internal/model"
)

// Orderable is anything with an identity and a server-assigned position.
type Orderable interface {
	OrderID() int64
	OrderIndex() int
}

// IndexOf returns the position of id in list, or -1.
func IndexOf[T Orderable](list []T, id int64) int {
	for i, x := range list {
		if x.OrderID() == id {
			return i
		}
	}
	return -1
}

// Move removes the element at from and reinserts it at to (array-move).
// Out-of-range indexes return the input order unchanged.
func Move[T any](list []T, from, to int) []T {
	out := append([]T(nil), list...)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	x := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{x}, out[to:]...)...)
	return out
}

// Reorder moves the element identified by sourceID to the position of
// targetID. A missing id, or source == target, is a no-op: the returned
// order equals the input and moved is false. The result is always a
// permutation of the input.
func Reorder[T Orderable](list []T, sourceID, targetID int64) (out []T, moved bool) {
	from := IndexOf(list, sourceID)
	to := IndexOf(list, targetID)
	if from < 0 || to < 0 || from == to {
		return append([]T(nil), list...), false
	}
	return Move(list, from, to), true
}

// ApplyAcks re-sorts list by the server's authoritative order values. Rows
// absent from the ack keep their last known local order, so ties break in
// favor of the order already on screen (stable sort).
func ApplyAcks[T Orderable](list []T, acks []model.OrderAck) []T {
	orderByID := make(map[int64]int, len(acks))
	for _, a := range acks {
		orderByID[a.ID] = a.Order
	}
	orderOf := func(x T) int {
		if o, ok := orderByID[x.OrderID()]; ok {
			return o
		}
		return x.OrderIndex()
	}
	out := append([]T(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		return orderOf(out[i]) < orderOf(out[j])
	})
	return out
}
