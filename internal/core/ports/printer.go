package ports

import (
	"context"

	"orderboard/internal/core/domain/model/order"
)

// Printer hands orders over to the ticket printing service.
//
// Calls are fire-and-forget: implementations log delivery failures and never report
// them back, so a printer outage cannot fail a board operation.
type Printer interface {
	// PrintProductionTicket prints the separation ticket of an order that (re)entered Placed.
	PrintProductionTicket(ctx context.Context, o *order.Order)

	// PrintReceipt prints the receipt of a finalized order. Only issued on explicit request.
	PrintReceipt(ctx context.Context, o *order.Order)
}
