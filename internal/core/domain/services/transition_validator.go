package services

import (
	"context"
	"errors"
	"fmt"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/pkg/errs"
)

// ErrItemsNotWeighed is the cause returned when finalization is requested while at least
// one item has no actual weight.
var ErrItemsNotWeighed = errors.New("all items must be weighed, enter 0 for missing items")

// OrderReader loads the authoritative state of an order.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// TransitionValidator decides whether a status change requested on the board is allowed.
//
// Business rules:
//   - Placed -> InSeparation is always allowed for an existing order
//   - InSeparation -> Placed (revert) is always allowed
//   - InSeparation -> Finalized requires every item of the authoritative order to carry
//     an actual weight
//   - Same-status requests and every other pair are rejected
type TransitionValidator struct {
	orders OrderReader
}

// NewTransitionValidator creates a validator reading authoritative orders from orders.
func NewTransitionValidator(orders OrderReader) (*TransitionValidator, error) {
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("orders")
	}
	return &TransitionValidator{orders: orders}, nil
}

// ValidateTransition checks edge legality only and returns the resulting status.
func (v *TransitionValidator) ValidateTransition(from, to order.Status) (order.Status, error) {
	return from.TransitionTo(to)
}

// Validate checks edge legality and the gates attached to the edge.
//
// Returns:
//   - nil when the transition may proceed
//   - an error wrapping errs.ErrValueIsInvalid for illegal edges and failed gates
//     (ErrItemsNotWeighed for the finalization gate)
//   - the reader's error when the authoritative order cannot be loaded
func (v *TransitionValidator) Validate(ctx context.Context, orderID kernel.UUID, from, to order.Status) error {
	next, err := v.ValidateTransition(from, to)
	if err != nil {
		return err
	}

	if next != order.Finalized {
		return nil
	}

	current, err := v.orders.Get(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s for finalization: %w", orderID, err)
	}
	if !current.AllItemsWeighed() {
		return errs.NewValueIsInvalidErrorWithCause("items", ErrItemsNotWeighed)
	}
	return nil
}
