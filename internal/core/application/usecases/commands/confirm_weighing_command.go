package commands

import (
	"errors"
	"fmt"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/domain/services"
	"orderboard/internal/pkg/errs"
	"orderboard/internal/pkg/guard"
)

var (
	ErrConfirmWeighingCommandIsNotConstructed = errors.New(
		"ConfirmWeighingCommand must be created via NewConfirmWeighingCommand constructor",
	)
	ErrDuplicateWeighingDraft = errors.New("item weighed more than once")
)

// ConfirmWeighingCommand carries the weights typed in the weighing form and the
// column the order goes to afterwards.
type ConfirmWeighingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	drafts  []services.WeighingDraft
	next    order.Status

	guard guard.ConstructorGuard
}

// NewConfirmWeighingCommand validates the identifiers and the target status.
// Weight inputs are kept as typed; parsing is done by the board.
func NewConfirmWeighingCommand(orderID kernel.UUID, drafts []services.WeighingDraft, next order.Status) (ConfirmWeighingCommand, error) {
	cmd := ConfirmWeighingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDrafts(drafts),
		cmd.setNext(next),
	); err != nil {
		return ConfirmWeighingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmWeighingCommand) Validate() error {
	return c.guard.Validate(ErrConfirmWeighingCommandIsNotConstructed)
}

// OrderID returns the weighed order.
func (c ConfirmWeighingCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Drafts returns a copy of the weighing drafts.
func (c ConfirmWeighingCommand) Drafts() []services.WeighingDraft {
	return append([]services.WeighingDraft(nil), c.drafts...)
}

// Next returns the target column.
func (c ConfirmWeighingCommand) Next() order.Status {
	return c.next
}

func (c *ConfirmWeighingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ConfirmWeighingCommand) setDrafts(drafts []services.WeighingDraft) error {
	seen := make(map[kernel.UUID]struct{}, len(drafts))
	for _, d := range drafts {
		if err := d.ItemID.Validate(); err != nil {
			return err
		}
		if _, dup := seen[d.ItemID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("drafts", fmt.Errorf("%w: %s", ErrDuplicateWeighingDraft, d.ItemID))
		}
		seen[d.ItemID] = struct{}{}
	}
	c.drafts = append([]services.WeighingDraft(nil), drafts...)
	return nil
}

func (c *ConfirmWeighingCommand) setNext(next order.Status) error {
	if err := next.Validate(); err != nil {
		return err
	}
	c.next = next
	return nil
}
