package commands

import (
	"context"
)

// PrintReceiptCommandHandler executes PrintReceiptCommand.
type PrintReceiptCommandHandler struct {
	board ReceiptPrinter
}

// NewPrintReceiptCommandHandler creates a handler printing receipts through board.
func NewPrintReceiptCommandHandler(board ReceiptPrinter) PrintReceiptCommandHandler {
	return PrintReceiptCommandHandler{board: board}
}

// Handle prints the receipt. The order must be in the finalized column.
func (h PrintReceiptCommandHandler) Handle(ctx context.Context, command PrintReceiptCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return h.board.PrintReceipt(ctx, command.OrderID())
}
