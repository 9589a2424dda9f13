package postgres

import (
	"context"
	"fmt"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/ports"
	"orderboard/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// OrderClient is the board's order repository client. Reads run on the plain
// connection; every write runs in its own unit of work.
type OrderClient struct {
	uowFactory ports.UnitOfWorkFactory
}

var _ ports.OrderRepository = (*OrderClient)(nil)

// NewOrderClient creates a client opening units of work from uowFactory.
func NewOrderClient(uowFactory ports.UnitOfWorkFactory) (*OrderClient, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	return &OrderClient{uowFactory: uowFactory}, nil
}

// ListByStatus returns the orders in status with their items.
func (c *OrderClient) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	return c.uowFactory.Create().OrderRepository().ListByStatus(ctx, status)
}

// Get retrieves one order with its items.
func (c *OrderClient) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return c.uowFactory.Create().OrderRepository().Get(ctx, id)
}

// UpdateStatus persists a status change.
func (c *OrderClient) UpdateStatus(ctx context.Context, id kernel.UUID, status order.Status) error {
	return c.inTransaction(ctx, func(repo ports.OrderRepository) error {
		return repo.UpdateStatus(ctx, id, status)
	})
}

// UpdateItemsAndStatus persists the weighing of an order in one transaction.
func (c *OrderClient) UpdateItemsAndStatus(
	ctx context.Context,
	id kernel.UUID,
	items []ports.ItemUpdate,
	total decimal.Decimal,
	status order.Status,
) error {
	return c.inTransaction(ctx, func(repo ports.OrderRepository) error {
		return repo.UpdateItemsAndStatus(ctx, id, items, total, status)
	})
}

func (c *OrderClient) inTransaction(ctx context.Context, fn func(ports.OrderRepository) error) error {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := fn(uow.OrderRepository()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
