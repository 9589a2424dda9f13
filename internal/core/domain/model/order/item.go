package order

import (
	"errors"
	"fmt"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrItemIsNotConstructed is returned when an Item was built with a struct literal.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem")

// Product is the catalogue entry an item refers to. It is read-only for the board.
type Product struct {
	ID   kernel.UUID
	Name string
	Unit string
}

// ItemParams carries the fields of an order line.
type ItemParams struct {
	ID              kernel.UUID
	Product         Product
	Quantity        decimal.Decimal
	RequestedWeight *decimal.Decimal
	ActualWeight    *decimal.Decimal
	UnitPrice       decimal.Decimal
	LineTotal       decimal.Decimal
	Note            *string
}

// Item is one line of an order. UnitPrice is the price per kilogram; ActualWeight stays
// nil until the line is weighed.
type Item struct {
	id              kernel.UUID
	product         Product
	quantity        decimal.Decimal
	requestedWeight *decimal.Decimal
	actualWeight    *decimal.Decimal
	unitPrice       decimal.Decimal
	lineTotal       decimal.Decimal
	note            *string

	isConstructed bool
}

// NewItem creates an unweighed line. LineTotal starts at zero.
func NewItem(id kernel.UUID, product Product, quantity decimal.Decimal, requestedWeight *decimal.Decimal,
	unitPrice decimal.Decimal, note *string) (Item, error) {
	return RestoreItem(ItemParams{
		ID:              id,
		Product:         product,
		Quantity:        quantity,
		RequestedWeight: requestedWeight,
		UnitPrice:       unitPrice,
		LineTotal:       decimal.Zero,
		Note:            note,
	})
}

// RestoreItem rebuilds an item from persisted or event data.
func RestoreItem(p ItemParams) (Item, error) {
	if err := errors.Join(
		p.ID.Validate(),
		nonNegative("quantity", p.Quantity),
		nonNegativePtr("requested weight", p.RequestedWeight),
		nonNegativePtr("actual weight", p.ActualWeight),
		nonNegative("unit price", p.UnitPrice),
		nonNegative("line total", p.LineTotal),
	); err != nil {
		return Item{}, err
	}

	return Item{
		id:              p.ID,
		product:         p.Product,
		quantity:        p.Quantity,
		requestedWeight: copyDecimal(p.RequestedWeight),
		actualWeight:    copyDecimal(p.ActualWeight),
		unitPrice:       p.UnitPrice,
		lineTotal:       p.LineTotal,
		note:            copyString(p.Note),
		isConstructed:   true,
	}, nil
}

// Validate reports ErrItemIsNotConstructed for zero values.
func (i Item) Validate() error {
	if !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ID returns the line identifier.
func (i Item) ID() kernel.UUID { return i.id }

// Product returns the catalogue product of the line.
func (i Item) Product() Product { return i.product }

// Quantity returns the number of units ordered.
func (i Item) Quantity() decimal.Decimal { return i.quantity }

// UnitPrice returns the price per kilogram.
func (i Item) UnitPrice() decimal.Decimal { return i.unitPrice }

// LineTotal returns the monetary total of the line.
func (i Item) LineTotal() decimal.Decimal { return i.lineTotal }

// Note returns the free-text note attached to the line, or nil.
func (i Item) Note() *string { return copyString(i.note) }

// RequestedWeight returns the weight the customer asked for, or nil.
func (i Item) RequestedWeight() *decimal.Decimal { return copyDecimal(i.requestedWeight) }

// ActualWeight returns the weighed amount, or nil when the line was not weighed yet.
func (i Item) ActualWeight() *decimal.Decimal { return copyDecimal(i.actualWeight) }

// IsWeighed reports whether an actual weight was recorded. Zero counts as weighed.
func (i Item) IsWeighed() bool {
	return i.actualWeight != nil
}

// Weighed returns a copy of the item carrying the given weighing result.
func (i Item) Weighed(actualWeight decimal.Decimal, lineTotal decimal.Decimal) (Item, error) {
	if err := errors.Join(
		nonNegative("actual weight", actualWeight),
		nonNegative("line total", lineTotal),
	); err != nil {
		return Item{}, err
	}
	next := i
	next.actualWeight = &actualWeight
	next.lineTotal = lineTotal
	return next, nil
}

func nonNegative(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(name+" is invalid", fmt.Errorf("%s is negative", v))
	}
	return nil
}

func nonNegativePtr(name string, v *decimal.Decimal) error {
	if v == nil {
		return nil
	}
	return nonNegative(name, *v)
}

func copyDecimal(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
