package nats_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	natsprinter "orderboard/internal/adapters/out/nats"
	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(subject string, data []byte) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func weighedOrder(t *testing.T) *order.Order {
	t.Helper()
	weight := decimal.RequireFromString("1.25")
	item, err := order.RestoreItem(order.ItemParams{
		ID:           kernel.NewUUID(),
		Product:      order.Product{ID: kernel.NewUUID(), Name: "Maminha", Unit: "kg"},
		Quantity:     decimal.NewFromInt(1),
		ActualWeight: &weight,
		UnitPrice:    decimal.RequireFromString("39.90"),
		LineTotal:    decimal.RequireFromString("49.88"),
	})
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:        kernel.NewUUID(),
		Status:    order.Finalized,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Total:     decimal.RequireFromString("49.88"),
		Customer:  order.Customer{Name: "Carla", Phone: "555-0101"},
		Items:     []order.Item{item},
	})
	require.NoError(t, err)
	return o
}

func TestNewPrinter_RequiresPublisher(t *testing.T) {
	_, err := natsprinter.NewPrinter(nil, "", nil, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestPrinter_PublishesJobs(t *testing.T) {
	o := weighedOrder(t)
	publisher := &MockPublisher{}
	var published []byte
	publisher.On("Publish", "shop.print.receipt", mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).([]byte) }).
		Return(nil).Once()
	publisher.On("Publish", "shop.print.production_ticket", mock.Anything).Return(nil).Once()

	printer, err := natsprinter.NewPrinter(publisher, "shop.print", nil, nil)
	require.NoError(t, err)

	printer.PrintReceipt(t.Context(), o)
	printer.PrintProductionTicket(t.Context(), o)

	publisher.AssertExpectations(t)

	var job natsprinter.PrintJob
	require.NoError(t, json.Unmarshal(published, &job))
	assert.Equal(t, natsprinter.KindReceipt, job.Kind)
	assert.Equal(t, o.ID().String(), job.Order.ID)
	assert.Equal(t, "finalized", job.Order.Status)
	assert.Equal(t, "Carla", job.Order.CustomerName)
	assert.True(t, job.Order.Total.Equal(decimal.RequireFromString("49.88")))
	require.Len(t, job.Order.Items, 1)
	assert.Equal(t, "Maminha", job.Order.Items[0].ProductName)
	assert.True(t, job.Order.Items[0].ActualWeight.Equal(decimal.RequireFromString("1.25")))
	assert.False(t, job.RequestedAt.IsZero())
}

func TestPrinter_DefaultPrefix(t *testing.T) {
	printer, err := natsprinter.NewPrinter(&MockPublisher{}, "", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "orderboard.print.receipt", printer.Subject(natsprinter.KindReceipt))
}

func TestPrinter_SwallowsPublishErrors(t *testing.T) {
	publisher := &MockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats: connection closed")).Once()
	printer, err := natsprinter.NewPrinter(publisher, "", nil, nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		printer.PrintProductionTicket(t.Context(), weighedOrder(t))
	})
	publisher.AssertExpectations(t)
}

func TestPrinter_SkipsInvalidOrders(t *testing.T) {
	publisher := &MockPublisher{}
	printer, err := natsprinter.NewPrinter(publisher, "", nil, nil)
	require.NoError(t, err)

	printer.PrintReceipt(t.Context(), &order.Order{})

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
