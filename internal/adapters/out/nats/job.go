package nats

import (
	"time"

	"orderboard/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// Print job kinds; each is published on "<prefix>.<kind>".
const (
	KindProductionTicket = "production_ticket"
	KindReceipt          = "receipt"
)

// PrintJob is the message consumed by the printing service.
type PrintJob struct {
	Kind        string       `json:"kind"`
	RequestedAt time.Time    `json:"requested_at"`
	Order       PrintedOrder `json:"order"`
}

// PrintedOrder is the order as the printing service needs it.
type PrintedOrder struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	FinalizedAt   *time.Time      `json:"finalized_at,omitempty"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Note          *string         `json:"note,omitempty"`
	Items         []PrintedItem   `json:"items"`
}

// PrintedItem is one order line on a ticket or receipt.
type PrintedItem struct {
	ProductName     string           `json:"product_name"`
	Unit            string           `json:"unit,omitempty"`
	Quantity        decimal.Decimal  `json:"quantity"`
	RequestedWeight *decimal.Decimal `json:"requested_weight,omitempty"`
	ActualWeight    *decimal.Decimal `json:"actual_weight,omitempty"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	LineTotal       decimal.Decimal  `json:"line_total"`
	Note            *string          `json:"note,omitempty"`
}

func newPrintJob(kind string, o *order.Order, at time.Time) PrintJob {
	customer := o.Customer()
	printed := PrintedOrder{
		ID:            o.ID().String(),
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
	printed.Items = make([]PrintedItem, 0, len(items))
	for _, item := range items {
		printed.Items = append(printed.Items, PrintedItem{
			ProductName:     item.Product().Name,
			Unit:            item.Product().Unit,
			Quantity:        item.Quantity(),
			RequestedWeight: item.RequestedWeight(),
			ActualWeight:    item.ActualWeight(),
			UnitPrice:       item.UnitPrice(),
			LineTotal:       item.LineTotal(),
			Note:            item.Note(),
		})
	}

	return PrintJob{Kind: kind, RequestedAt: at, Order: printed}
}
