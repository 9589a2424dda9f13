package commands

import (
	"context"
)

// ReloadBoardCommandHandler executes ReloadBoardCommand.
type ReloadBoardCommandHandler struct {
	board BoardLoader
}

// NewReloadBoardCommandHandler creates a handler reloading board.
func NewReloadBoardCommandHandler(board BoardLoader) ReloadBoardCommandHandler {
	return ReloadBoardCommandHandler{board: board}
}

// Handle reloads the board. On failure the previous columns stay in place.
func (h ReloadBoardCommandHandler) Handle(ctx context.Context, command ReloadBoardCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return h.board.LoadAll(ctx)
}
