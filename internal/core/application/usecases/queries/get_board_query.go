// Package queries contains read operations over the order board.
// Queries never touch the order store; they read the board snapshot, which is kept
// current by the command handlers and the realtime reconciler.
package queries

import (
	"errors"
	"time"

	"orderboard/internal/core/application/board"
	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/domain/services"
	"orderboard/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetBoardQueryIsNotConstructed = errors.New(
	"GetBoardQuery must be created via NewGetBoardQuery constructor",
)

// BoardReader exposes the current board snapshot.
type BoardReader interface {
	Snapshot() board.Board
}

// GetBoardQuery retrieves the three status columns of the board.
//
// Example:
//
//	query := NewGetBoardQuery()
//	handler := NewGetBoardQueryHandler(store)
//
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d orders waiting\n", len(resp.Placed))
type GetBoardQuery struct {
	guard guard.ConstructorGuard
}

// NewGetBoardQuery creates a parameterless board query.
func NewGetBoardQuery() GetBoardQuery {
	return GetBoardQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetBoardQuery) Validate() error {
	return q.guard.Validate(ErrGetBoardQueryIsNotConstructed)
}

// GetBoardQueryResponse is the read model of the whole board.
// LastError holds the message of the last failed reload, empty when the last reload
// succeeded.
type GetBoardQueryResponse struct {
	Placed       []OrderCard
	InSeparation []OrderCard
	Finalized    []OrderCard
	Loading      bool
	LastError    string
}

// OrderCard is the read model of one order as shown in a column.
type OrderCard struct {
	ID            kernel.UUID
	Status        string
	CreatedAt     time.Time
	FinalizedAt   *time.Time
	Total         decimal.Decimal
	PaymentMethod *string
	CustomerName  string
	CustomerPhone string
	Note          *string
	Items         []ItemLine
}

// ItemLine is the read model of one order line. WeightInput is the weighing form
// pre-fill for the line.
type ItemLine struct {
	ID              kernel.UUID
	ProductName     string
	Unit            string
	Quantity        decimal.Decimal
	RequestedWeight *decimal.Decimal
	ActualWeight    *decimal.Decimal
	UnitPrice       decimal.Decimal
	LineTotal       decimal.Decimal
	Note            *string
	WeightInput     string
}

func newOrderCard(o *order.Order, calc services.WeighingCalculator) OrderCard {
	customer := o.Customer()
	card := OrderCard{
		ID:            o.ID(),
		Status:        o.Status().String(),
		CreatedAt:     o.CreatedAt(),
		FinalizedAt:   o.FinalizedAt(),
		Total:         o.Total(),
		PaymentMethod: o.PaymentMethod(),
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		Note:          o.Note(),
	}

	items := o.Items()
	card.Items = make([]ItemLine, 0, len(items))
	for _, item := range items {
		card.Items = append(card.Items, ItemLine{
			ID:              item.ID(),
			ProductName:     item.Product().Name,
			Unit:            item.Product().Unit,
			Quantity:        item.Quantity(),
			RequestedWeight: item.RequestedWeight(),
			ActualWeight:    item.ActualWeight(),
			UnitPrice:       item.UnitPrice(),
			LineTotal:       item.LineTotal(),
			Note:            item.Note(),
			WeightInput:     calc.InitialWeightInput(item),
		})
	}
	return card
}

func newOrderCards(orders []*order.Order, calc services.WeighingCalculator) []OrderCard {
	cards := make([]OrderCard, 0, len(orders))
	for _, o := range orders {
		cards = append(cards, newOrderCard(o, calc))
	}
	return cards
}
