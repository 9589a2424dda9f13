// Package commands contains the board operations that change state.
// Every command is built through its constructor, validated again by its handler and
// executed against the board store.
package commands

import (
	"context"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/domain/services"
)

// Board store capabilities needed by the command handlers.
type (
	// OrderMover moves an order between status columns.
	OrderMover interface {
		Move(ctx context.Context, id kernel.UUID, from, to order.Status) error
	}

	// WeighingConfirmer records weighing drafts and moves the order.
	WeighingConfirmer interface {
		ConfirmWeighing(ctx context.Context, id kernel.UUID, drafts []services.WeighingDraft, next order.Status) (*order.Order, error)
	}

	// ReceiptPrinter prints the receipt of a finalized order on the board.
	ReceiptPrinter interface {
		PrintReceipt(ctx context.Context, id kernel.UUID) error
	}

	// BoardLoader reloads the whole board.
	BoardLoader interface {
		LoadAll(ctx context.Context) error
	}
)
