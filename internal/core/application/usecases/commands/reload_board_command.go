package commands

import (
	"errors"

	"orderboard/internal/pkg/guard"
)

var ErrReloadBoardCommandIsNotConstructed = errors.New(
	"ReloadBoardCommand must be created via NewReloadBoardCommand constructor",
)

// ReloadBoardCommand rebuilds the board from the order store. It is issued by the
// refresh button and by the periodic reconciliation job.
type ReloadBoardCommand struct {
	guard guard.ConstructorGuard
}

// NewReloadBoardCommand creates a parameterless reload command.
func NewReloadBoardCommand() ReloadBoardCommand {
	return ReloadBoardCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c ReloadBoardCommand) Validate() error {
	return c.guard.Validate(ErrReloadBoardCommandIsNotConstructed)
}
