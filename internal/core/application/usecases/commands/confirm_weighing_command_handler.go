package commands

import (
	"context"

	"orderboard/internal/core/domain/model/order"
)

// ConfirmWeighingCommandHandler executes ConfirmWeighingCommand on the board.
type ConfirmWeighingCommandHandler struct {
	board WeighingConfirmer
}

// NewConfirmWeighingCommandHandler creates a handler confirming weighings on board.
func NewConfirmWeighingCommandHandler(board WeighingConfirmer) ConfirmWeighingCommandHandler {
	return ConfirmWeighingCommandHandler{board: board}
}

// Handle validates the command and returns the order as stored after the weighing.
func (h ConfirmWeighingCommandHandler) Handle(ctx context.Context, command ConfirmWeighingCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	return h.board.ConfirmWeighing(ctx, command.OrderID(), command.Drafts(), command.Next())
}
