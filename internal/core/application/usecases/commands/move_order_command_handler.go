package commands

import (
	"context"
)

// MoveOrderCommandHandler executes MoveOrderCommand on the board.
//
// Example:
//
//	handler := NewMoveOrderCommandHandler(store)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrValueIsInvalid):
//	    // rejected transition, nothing changed
//	case errors.Is(err, board.ErrRemoteWriteFailed):
//	    // the board was reloaded from the order store
//	}
type MoveOrderCommandHandler struct {
	board OrderMover
}

// NewMoveOrderCommandHandler creates a handler moving orders on board.
func NewMoveOrderCommandHandler(board OrderMover) MoveOrderCommandHandler {
	return MoveOrderCommandHandler{board: board}
}

// Handle validates the command and moves the order.
func (h MoveOrderCommandHandler) Handle(ctx context.Context, command MoveOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return h.board.Move(ctx, command.OrderID(), command.From(), command.To())
}
