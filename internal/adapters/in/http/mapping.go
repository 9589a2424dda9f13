package http

import (
	"orderboard/internal/core/application/usecases/queries"

	"github.com/shopspring/decimal"
)

func toOrders(cards []queries.OrderCard) []Order {
	orders := make([]Order, 0, len(cards))
	for _, card := range cards {
		orders = append(orders, toOrder(card))
	}
	return orders
}

func toOrder(card queries.OrderCard) Order {
	o := Order{
		Id:            card.ID.Bytes(),
		Status:        card.Status,
		CreatedAt:     card.CreatedAt,
		FinalizedAt:   card.FinalizedAt,
		Total:         money(card.Total),
		PaymentMethod: card.PaymentMethod,
		CustomerName:  card.CustomerName,
		CustomerPhone: card.CustomerPhone,
		Note:          card.Note,
		Items:         make([]Item, 0, len(card.Items)),
	}
	for _, line := range card.Items {
		o.Items = append(o.Items, Item{
			Id:              line.ID.Bytes(),
			ProductName:     line.ProductName,
			Unit:            line.Unit,
			Quantity:        line.Quantity.String(),
			RequestedWeight: weight(line.RequestedWeight),
			ActualWeight:    weight(line.ActualWeight),
			UnitPrice:       money(line.UnitPrice),
			LineTotal:       money(line.LineTotal),
			Note:            line.Note,
			WeightInput:     line.WeightInput,
		})
	}
	return o
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func weight(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
