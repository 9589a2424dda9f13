package order

import (
	"errors"
	"fmt"

	"orderboard/internal/pkg/errs"
)

var (
	// ErrTransitionIsNotAllowed is the cause attached to every rejected status change.
	ErrTransitionIsNotAllowed = errors.New("status transition is not allowed")

	// ErrStatusIsUnchanged is the cause attached to same-status transition requests.
	ErrStatusIsUnchanged = errors.New("order already has this status")
)

// Status is the position of an order on the board.
//
// State transitions:
//
//	Placed ──> InSeparation ──> Finalized
//	  ^             │
//	  └─────────────┘
//	     (revert)
//
// Finalized is terminal. Same-status requests are rejected rather than treated as no-ops.
type Status int

const (
	// Unknown is the zero value and never valid. It helps catch unset statuses and
	// rows whose status column holds an unexpected code.
	Unknown Status = iota

	// Placed is the status of a freshly created order waiting to be picked.
	Placed

	// InSeparation means the order is being separated and weighed.
	InSeparation

	// Finalized means every item was weighed and the total is settled.
	Finalized
)

func getStatusCodes() map[Status]string {
	return map[Status]string{
		Unknown:      "unknown",
		Placed:       "placed",
		InSeparation: "in_separation",
		Finalized:    "finalized",
	}
}

// Statuses lists the valid statuses in board column order.
func Statuses() []Status {
	return []Status{Placed, InSeparation, Finalized}
}

// ParseStatus converts a wire/database code into a Status.
func ParseStatus(code string) (Status, error) {
	for status, c := range getStatusCodes() {
		if c == code && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid status code", code),
	)
}

// Validate checks that the Status is one of Placed, InSeparation or Finalized.
func (s Status) Validate() error {
	if s != Placed && s != InSeparation && s != Finalized {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire code of the status ("placed", "in_separation", "finalized").
// Invalid values render as "unknown".
func (s Status) String() string {
	if code, ok := getStatusCodes()[s]; ok {
		return code
	}
	return "unknown"
}

// StartSeparation moves a placed order into separation.
func (s Status) StartSeparation() (Status, error) {
	if s != Placed {
		return Unknown, notAllowed(s, InSeparation)
	}
	return InSeparation, nil
}

// Revert sends an order in separation back to Placed. Items are not touched.
func (s Status) Revert() (Status, error) {
	if s != InSeparation {
		return Unknown, notAllowed(s, Placed)
	}
	return Placed, nil
}

// Finalize closes an order that is in separation. Weighing preconditions are checked
// by the caller; this method only enforces the edge.
func (s Status) Finalize() (Status, error) {
	if s != InSeparation {
		return Unknown, notAllowed(s, Finalized)
	}
	return Finalized, nil
}

// TransitionTo resolves a requested target into one of the allowed edges.
//
// Returns:
//   - (target, nil) when the edge exists
//   - an error wrapping ErrStatusIsUnchanged when target equals s
//   - an error wrapping ErrTransitionIsNotAllowed for any other request
//
// Example:
//
//	next, err := order.Placed.TransitionTo(order.InSeparation)
//	if errors.Is(err, order.ErrTransitionIsNotAllowed) {
//	    // reject the drag and drop
//	}
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if s == target {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status transition",
			fmt.Errorf("%w: %s", ErrStatusIsUnchanged, s),
		)
	}

	switch target {
	case InSeparation:
		return s.StartSeparation()
	case Placed:
		return s.Revert()
	case Finalized:
		return s.Finalize()
	default:
		return Unknown, notAllowed(s, target)
	}
}

func notAllowed(from, to Status) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status transition",
		fmt.Errorf("%w: %s -> %s", ErrTransitionIsNotAllowed, from, to),
	)
}
