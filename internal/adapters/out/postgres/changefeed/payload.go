package changefeed

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/ports"

	"github.com/shopspring/decimal"
)

var ErrUnknownChangeType = errors.New("unknown change type")

// timeLayouts are the renderings of timestamp columns seen in row_to_json output.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
}

type notification struct {
	Type string    `json:"type"`
	New  *orderRow `json:"new"`
	Old  *orderRow `json:"old"`
}

// orderRow mirrors the columns of the orders table.
type orderRow struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
	FinalizedAt   *string         `json:"finalized_at"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod *string         `json:"payment_method"`
	CustomerID    *string         `json:"customer_id"`
	CustomerName  *string         `json:"customer_name"`
	CustomerPhone *string         `json:"customer_phone"`
	CustomerEmail *string         `json:"customer_email"`
	Note          *string         `json:"note"`
}

// Decode turns a NOTIFY payload into a change event.
//
// The order id is taken from the new row, else from the old one. Rows that cannot be
// mapped to an order still produce a snapshot carrying their status; only an unknown
// change type, a payload that is not JSON, or a missing id are errors.
func Decode(payload string) (ports.ChangeEvent, error) {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return ports.ChangeEvent{}, fmt.Errorf("decode change payload: %w", err)
	}

	event := ports.ChangeEvent{}
	switch n.Type {
	case "INSERT":
		event.Type = ports.ChangeInsert
	case "UPDATE":
		event.Type = ports.ChangeUpdate
	case "DELETE":
		event.Type = ports.ChangeDelete
	default:
		return ports.ChangeEvent{}, fmt.Errorf("%w: %q", ErrUnknownChangeType, n.Type)
	}

	row := n.New
	if row == nil {
		row = n.Old
	}
	if row == nil {
		return ports.ChangeEvent{}, errors.New("change payload carries no row")
	}
	id, err := kernel.UUIDFromString(row.ID)
	if err != nil {
		return ports.ChangeEvent{}, fmt.Errorf("change payload id: %w", err)
	}
	event.OrderID = id

	event.New = n.New.snapshot()
	event.Old = n.Old.snapshot()
	return event, nil
}

func (r *orderRow) snapshot() *ports.RowSnapshot {
	if r == nil {
		return nil
	}

	status, _ := order.ParseStatus(r.Status)
	snap := &ports.RowSnapshot{Status: status}
	if o, err := r.toOrder(status); err == nil {
		snap.Order = o
	}
	return snap
}

func (r *orderRow) toOrder(status order.Status) (*order.Order, error) {
	id, err := kernel.UUIDFromString(r.ID)
	if err != nil {
		return nil, err
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}

	var finalizedAt *time.Time
	if r.FinalizedAt != nil {
		at, parseErr := parseTime(*r.FinalizedAt)
		if parseErr != nil {
			return nil, parseErr
		}
		finalizedAt = &at
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:            id,
		Status:        status,
		CreatedAt:     createdAt,
		FinalizedAt:   finalizedAt,
		Total:         r.Total,
		PaymentMethod: r.PaymentMethod,
		Customer: order.Customer{
			ID:    deref(r.CustomerID),
			Name:  deref(r.CustomerName),
			Phone: deref(r.CustomerPhone),
			Email: r.CustomerEmail,
		},
		Note: r.Note,
	})
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
