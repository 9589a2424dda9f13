package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrItemIsNotOnOrder is the cause used when an item id does not belong to the order.
	ErrItemIsNotOnOrder = errors.New("item does not belong to the order")
)

// Customer is the buyer snapshot stored with the order.
type Customer struct {
	ID    string
	Name  string
	Phone string
	Email *string
}

// Order is a customer order as shown on the board.
//
// Order is immutable: every change returns a new *Order and leaves the receiver
// untouched, so snapshots handed to readers can be shared without copying.
//
// Order follows these invariants:
//   - Must have a valid unique identifier
//   - Total equals the sum of the item line totals once the order left Placed
//   - FinalizedAt is set exactly when the status is Finalized
//
// The invariant on Total is owned by whoever writes the order (the board computes it
// with the weighing calculator, the database stores it as sent); the entity does not
// recompute it.
type Order struct {
	id            kernel.UUID
	status        Status
	createdAt     time.Time
	finalizedAt   *time.Time
	total         decimal.Decimal
	paymentMethod *string
	customer      Customer
	note          *string
	items         []Item

	isConstructed bool
}

// RestoreOrderParams carries every persisted field of an order.
type RestoreOrderParams struct {
	ID            kernel.UUID
	Status        Status
	CreatedAt     time.Time
	FinalizedAt   *time.Time
	Total         decimal.Decimal
	PaymentMethod *string
	Customer      Customer
	Note          *string
	Items         []Item
}

// NewOrder creates an order in the Placed status with a zero total.
//
// Example:
//
//	item, _ := order.NewItem(kernel.NewUUID(), product, decimal.NewFromInt(1), nil, price, nil)
//	o, err := order.NewOrder(kernel.NewUUID(), order.Customer{Name: "Ana"}, []order.Item{item}, time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(id kernel.UUID, customer Customer, items []Item, createdAt time.Time) (*Order, error) {
	return RestoreOrder(RestoreOrderParams{
		ID:        id,
		Status:    Placed,
		CreatedAt: createdAt,
		Total:     decimal.Zero,
		Customer:  customer,
		Items:     items,
	})
}

// RestoreOrder rebuilds an order from persistence or from a change event.
//
// Unlike NewOrder it accepts Unknown as status: rows carrying an unrecognized status
// code are still orders, they simply do not belong to any board column.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	validations := []error{p.ID.Validate(), nonNegative("total", p.Total)}
	if p.CreatedAt.IsZero() {
		validations = append(validations, errs.NewValueIsRequiredError("created at"))
	}
	for _, item := range p.Items {
		validations = append(validations, item.Validate())
	}
	if err := errors.Join(validations...); err != nil {
		return nil, err
	}

	o := &Order{
		id:            p.ID,
		status:        p.Status,
		createdAt:     p.CreatedAt,
		total:         p.Total,
		paymentMethod: copyString(p.PaymentMethod),
		customer:      copyCustomer(p.Customer),
		note:          copyString(p.Note),
		items:         slices.Clone(p.Items),
		isConstructed: true,
	}
	if p.FinalizedAt != nil {
		at := *p.FinalizedAt
		o.finalizedAt = &at
	}
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns the creation time used to sort board columns.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// FinalizedAt returns when the order was finalized, or nil.
func (o *Order) FinalizedAt() *time.Time {
	if o.finalizedAt == nil {
		return nil
	}
	at := *o.finalizedAt
	return &at
}

// Total returns the order total.
func (o *Order) Total() decimal.Decimal {
	return o.total
}

// PaymentMethod returns the payment method chosen by the customer, or nil.
func (o *Order) PaymentMethod() *string {
	return copyString(o.paymentMethod)
}

// Customer returns the customer snapshot.
func (o *Order) Customer() Customer {
	return copyCustomer(o.customer)
}

// Note returns the order note, or nil.
func (o *Order) Note() *string {
	return copyString(o.note)
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return slices.Clone(o.items)
}

// Item looks up a line by id.
func (o *Order) Item(id kernel.UUID) (Item, bool) {
	for _, item := range o.items {
		if item.id.IsEqual(id) {
			return item, true
		}
	}
	return Item{}, false
}

// AllItemsWeighed reports whether every line carries an actual weight.
// An order without items is trivially weighed.
func (o *Order) AllItemsWeighed() bool {
	for _, item := range o.items {
		if !item.IsWeighed() {
			return false
		}
	}
	return true
}

// WithStatus returns a copy of the order in the given status.
//
// Only the target is validated here; edge legality is checked by the caller through
// Status.TransitionTo. FinalizedAt is stamped with at when entering Finalized and
// cleared for any other status.
func (o *Order) WithStatus(status Status, at time.Time) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	next := o.clone()
	next.status = status
	if status == Finalized {
		if next.finalizedAt == nil || o.status != Finalized {
			stamp := at
			next.finalizedAt = &stamp
		}
	} else {
		next.finalizedAt = nil
	}
	return next, nil
}

// WithWeighing returns a copy of the order with the weighed lines replaced, the total
// set and the status changed. Lines of items not present in weighed are kept as they are.
func (o *Order) WithWeighing(weighed []Item, total decimal.Decimal, status Status, at time.Time) (*Order, error) {
	if err := nonNegative("total", total); err != nil {
		return nil, err
	}

	next, err := o.WithStatus(status, at)
	if err != nil {
		return nil, err
	}

	for _, w := range weighed {
		if err = w.Validate(); err != nil {
			return nil, err
		}
		idx := slices.IndexFunc(next.items, func(item Item) bool { return item.id.IsEqual(w.id) })
		if idx < 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause("item id", fmt.Errorf("%w: %s", ErrItemIsNotOnOrder, w.id))
		}
		next.items[idx] = w
	}
	next.total = total
	return next, nil
}

func (o *Order) clone() *Order {
	next := *o
	next.items = slices.Clone(o.items)
	return &next
}

func copyCustomer(c Customer) Customer {
	c.Email = copyString(c.Email)
	return c
}
