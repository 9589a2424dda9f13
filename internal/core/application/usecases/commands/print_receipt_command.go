package commands

import (
	"errors"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/pkg/guard"
)

var ErrPrintReceiptCommandIsNotConstructed = errors.New(
	"PrintReceiptCommand must be created via NewPrintReceiptCommand constructor",
)

// PrintReceiptCommand asks for the receipt of a finalized order. Receipts are only ever
// printed on request.
type PrintReceiptCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewPrintReceiptCommand creates the command for orderID.
func NewPrintReceiptCommand(orderID kernel.UUID) (PrintReceiptCommand, error) {
	if err := orderID.Validate(); err != nil {
		return PrintReceiptCommand{}, err
	}
	return PrintReceiptCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c PrintReceiptCommand) Validate() error {
	return c.guard.Validate(ErrPrintReceiptCommandIsNotConstructed)
}

// OrderID returns the order whose receipt is printed.
func (c PrintReceiptCommand) OrderID() kernel.UUID {
	return c.orderID
}
