package board

import (
	"slices"
	"strings"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
)

// Board is an immutable snapshot of the order board.
//
// Slices are never modified after the snapshot is published; callers must not modify
// them either.
type Board struct {
	Placed       []*order.Order
	InSeparation []*order.Order
	Finalized    []*order.Order

	// Loading is true while a full reload is in flight.
	Loading bool

	// LastError is the error of the last failed reload, cleared by a successful one.
	LastError error
}

// Bucket returns the column of status, or nil for an invalid status.
func (b Board) Bucket(status order.Status) []*order.Order {
	switch status {
	case order.Placed:
		return b.Placed
	case order.InSeparation:
		return b.InSeparation
	case order.Finalized:
		return b.Finalized
	default:
		return nil
	}
}

// Find looks an order up across the three columns.
func (b Board) Find(id kernel.UUID) (*order.Order, bool) {
	o, _, ok := b.locate(id)
	return o, ok
}

// Len returns the number of orders on the board.
func (b Board) Len() int {
	return len(b.Placed) + len(b.InSeparation) + len(b.Finalized)
}

// locate returns the order and the column holding it.
func (b Board) locate(id kernel.UUID) (*order.Order, order.Status, bool) {
	for _, status := range order.Statuses() {
		for _, o := range b.Bucket(status) {
			if o.ID().IsEqual(id) {
				return o, status, true
			}
		}
	}
	return nil, order.Unknown, false
}

func (b Board) withBucket(status order.Status, orders []*order.Order) Board {
	switch status {
	case order.Placed:
		b.Placed = orders
	case order.InSeparation:
		b.InSeparation = orders
	case order.Finalized:
		b.Finalized = orders
	}
	return b
}

// without removes id from every column. Columns that do not hold it are shared.
func (b Board) without(id kernel.UUID) Board {
	for _, status := range order.Statuses() {
		bucket := b.Bucket(status)
		idx := slices.IndexFunc(bucket, func(o *order.Order) bool { return o.ID().IsEqual(id) })
		if idx < 0 {
			continue
		}
		b = b.withBucket(status, slices.Delete(slices.Clone(bucket), idx, idx+1))
	}
	return b
}

// with puts o at the head of the column of its status and resorts it. Orders with an
// invalid status are not placed anywhere.
func (b Board) with(o *order.Order) Board {
	if o.Status().Validate() != nil {
		return b
	}
	bucket := append([]*order.Order{o}, b.Bucket(o.Status())...)
	sortBucket(bucket)
	return b.withBucket(o.Status(), bucket)
}

func (b Board) sizes() map[string]int {
	sizes := make(map[string]int, 3)
	for _, status := range order.Statuses() {
		sizes[status.String()] = len(b.Bucket(status))
	}
	return sizes
}

// newBoard builds columns from freshly loaded orders. Each order lands in the column
// of its own status; a duplicated id keeps its last occurrence.
func newBoard(lists ...[]*order.Order) Board {
	var b Board
	for _, list := range lists {
		for _, o := range list {
			if o == nil {
				continue
			}
			b = b.without(o.ID())
			if o.Status().Validate() != nil {
				continue
			}
			b = b.withBucket(o.Status(), append(b.Bucket(o.Status()), o))
		}
	}
	for _, status := range order.Statuses() {
		sortBucket(b.Bucket(status))
	}
	return b
}

// sortBucket orders by creation time, newest first. Ties are broken by id so that the
// order is deterministic.
func sortBucket(bucket []*order.Order) {
	slices.SortStableFunc(bucket, func(a, b *order.Order) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		return strings.Compare(a.ID().String(), b.ID().String())
	})
}
