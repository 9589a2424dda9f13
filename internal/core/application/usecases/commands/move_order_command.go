package commands

import (
	"errors"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/pkg/guard"
)

var ErrMoveOrderCommandIsNotConstructed = errors.New(
	"MoveOrderCommand must be created via NewMoveOrderCommand constructor",
)

// MoveOrderCommand is a drag and drop of an order from one column to another.
//
// Example:
//
//	cmd, err := NewMoveOrderCommand(orderID, order.Placed, order.InSeparation)
//	if err != nil {
//	    return fmt.Errorf("invalid move: %w", err)
//	}
//	err = NewMoveOrderCommandHandler(store).Handle(ctx, cmd)
type MoveOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	from    order.Status
	to      order.Status

	guard guard.ConstructorGuard
}

// NewMoveOrderCommand validates the order id and both statuses.
// Edge legality is checked by the board, not here.
func NewMoveOrderCommand(orderID kernel.UUID, from, to order.Status) (MoveOrderCommand, error) {
	cmd := MoveOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setFrom(from),
		cmd.setTo(to),
	); err != nil {
		return MoveOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MoveOrderCommand) Validate() error {
	return c.guard.Validate(ErrMoveOrderCommandIsNotConstructed)
}

// OrderID returns the order to move.
func (c MoveOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// From returns the column the order is expected in.
func (c MoveOrderCommand) From() order.Status {
	return c.from
}

// To returns the target column.
func (c MoveOrderCommand) To() order.Status {
	return c.to
}

func (c *MoveOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *MoveOrderCommand) setFrom(from order.Status) error {
	if err := from.Validate(); err != nil {
		return err
	}
	c.from = from
	return nil
}

func (c *MoveOrderCommand) setTo(to order.Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	c.to = to
	return nil
}
