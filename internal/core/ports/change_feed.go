package ports

import (
	"context"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
)

// ChangeType is the kind of row change carried by a ChangeEvent.
type ChangeType int

const (
	ChangeUnknown ChangeType = iota
	ChangeInsert
	ChangeUpdate
	ChangeDelete

	// ChangeResync is emitted by feeds that may have lost events, for example after a
	// reconnect. Consumers rebuild their state instead of patching it.
	ChangeResync
)

func (t ChangeType) String() string {
	switch t {
	case ChangeInsert:
		return "insert"
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	case ChangeResync:
		return "resync"
	default:
		return "unknown"
	}
}

// RowSnapshot is the row image attached to a change event.
//
// Status is Unknown when the payload did not carry a recognizable status. Order is the
// best-effort order rebuilt from the row alone (no items); it is nil when the row could
// not be mapped.
type RowSnapshot struct {
	Status order.Status
	Order  *order.Order
}

// ChangeEvent is one change observed on the order store.
type ChangeEvent struct {
	Type    ChangeType
	OrderID kernel.UUID
	New     *RowSnapshot
	Old     *RowSnapshot
}

// ChangeHandler consumes change events. Handlers are called sequentially, in delivery order.
type ChangeHandler func(ctx context.Context, event ChangeEvent)

// Subscription is a live change feed registration.
type Subscription interface {
	// Unsubscribe stops delivery and releases the underlying resources. It is safe to
	// call more than once.
	Unsubscribe() error
}

// ChangeFeed delivers row changes of an entity ("orders") pushed by the order store.
type ChangeFeed interface {
	Subscribe(ctx context.Context, entity string, handler ChangeHandler) (Subscription, error)
}
