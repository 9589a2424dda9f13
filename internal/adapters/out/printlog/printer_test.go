package printlog_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"orderboard/internal/adapters/out/printlog"
	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_LogsRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	printer := printlog.NewPrinter(logger, nil)

	o, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:        kernel.NewUUID(),
		Status:    order.Placed,
		CreatedAt: time.Now(),
		Total:     decimal.RequireFromString("12.5"),
		Customer:  order.Customer{Name: "Davi"},
	})
	require.NoError(t, err)

	printer.PrintProductionTicket(t.Context(), o)
	printer.PrintReceipt(t.Context(), o)

	out := buf.String()
	assert.Contains(t, out, "kind=production_ticket")
	assert.Contains(t, out, "kind=receipt")
	assert.Contains(t, out, "order_id="+o.ID().String())
	assert.Contains(t, out, "total=12.50")
	assert.Contains(t, out, "component=printlog")
}

func TestPrinter_InvalidOrder(t *testing.T) {
	var buf bytes.Buffer
	printer := printlog.NewPrinter(slog.New(slog.NewTextHandler(&buf, nil)), nil)

	printer.PrintReceipt(t.Context(), nil)

	assert.Contains(t, buf.String(), "level=ERROR")
}
