package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/domain/services"
	"orderboard/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func orderWithWeights(t *testing.T, id kernel.UUID, weights ...*decimal.Decimal) *order.Order {
	t.Helper()
	items := make([]order.Item, 0, len(weights))
	for _, w := range weights {
		item, err := order.RestoreItem(order.ItemParams{
			ID:           kernel.NewUUID(),
			Quantity:     decimal.NewFromInt(1),
			ActualWeight: w,
			UnitPrice:    decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		items = append(items, item)
	}
	o, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:        id,
		Status:    order.InSeparation,
		CreatedAt: time.Now(),
		Customer:  order.Customer{Name: "Ana"},
		Items:     items,
	})
	require.NoError(t, err)
	return o
}

func TestNewTransitionValidator(t *testing.T) {
	v, err := services.NewTransitionValidator(nil)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Nil(t, v)
}

func TestTransitionValidator_Validate(t *testing.T) {
	id := kernel.NewUUID()
	zero := decimal.Zero
	weight := decimal.RequireFromString("1.2")

	t.Run("should allow start of separation without reading the order", func(t *testing.T) {
		reader := &MockOrderReader{}
		v, err := services.NewTransitionValidator(reader)
		require.NoError(t, err)

		require.NoError(t, v.Validate(t.Context(), id, order.Placed, order.InSeparation))
		reader.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("should allow revert without reading the order", func(t *testing.T) {
		reader := &MockOrderReader{}
		v, _ := services.NewTransitionValidator(reader)

		require.NoError(t, v.Validate(t.Context(), id, order.InSeparation, order.Placed))
		reader.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("should reject illegal edges before any read", func(t *testing.T) {
		reader := &MockOrderReader{}
		v, _ := services.NewTransitionValidator(reader)

		err := v.Validate(t.Context(), id, order.Placed, order.Finalized)
		require.ErrorIs(t, err, order.ErrTransitionIsNotAllowed)

		err = v.Validate(t.Context(), id, order.InSeparation, order.InSeparation)
		require.ErrorIs(t, err, order.ErrStatusIsUnchanged)

		reader.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("should finalize when every item is weighed, zero included", func(t *testing.T) {
		reader := &MockOrderReader{}
		reader.On("Get", mock.Anything, id).Return(orderWithWeights(t, id, &weight, &zero), nil).Once()
		v, _ := services.NewTransitionValidator(reader)

		require.NoError(t, v.Validate(t.Context(), id, order.InSeparation, order.Finalized))
		reader.AssertExpectations(t)
	})

	t.Run("should reject finalization with unweighed items", func(t *testing.T) {
		reader := &MockOrderReader{}
		reader.On("Get", mock.Anything, id).Return(orderWithWeights(t, id, &weight, nil), nil).Once()
		v, _ := services.NewTransitionValidator(reader)

		err := v.Validate(t.Context(), id, order.InSeparation, order.Finalized)

		require.ErrorIs(t, err, services.ErrItemsNotWeighed)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "all items must be weighed, enter 0 for missing items")
		reader.AssertExpectations(t)
	})

	t.Run("should surface read failures", func(t *testing.T) {
		readErr := errors.New("connection reset")
		reader := &MockOrderReader{}
		reader.On("Get", mock.Anything, id).Return(nil, readErr).Once()
		v, _ := services.NewTransitionValidator(reader)

		err := v.Validate(t.Context(), id, order.InSeparation, order.Finalized)

		require.ErrorIs(t, err, readErr)
		assert.NotErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
