package ports

import (
	"context"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// ItemUpdate is the weighing result persisted for one order line.
type ItemUpdate struct {
	ItemID       kernel.UUID
	ActualWeight decimal.Decimal
	LineTotal    decimal.Decimal
}

// OrderRepository defines the contract the board uses to read and write the
// authoritative order store.
type OrderRepository interface {
	// ListByStatus returns every order currently in status, items included.
	ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// Get retrieves an order with its items.
	// Returns an error wrapping errs.ErrObjectNotFound when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateStatus persists a new status. Entering Finalized stamps the finalization
	// time; any other status clears it.
	UpdateStatus(ctx context.Context, id kernel.UUID, status order.Status) error

	// UpdateItemsAndStatus persists weighing results, the new total and the new status
	// as one unit. A partial write is reported as an error, never as success.
	UpdateItemsAndStatus(ctx context.Context, id kernel.UUID, items []ItemUpdate, total decimal.Decimal, status order.Status) error
}
