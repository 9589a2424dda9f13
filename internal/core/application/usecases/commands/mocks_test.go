package commands_test

import (
	"context"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/domain/services"

	"github.com/stretchr/testify/mock"
)

type MockBoard struct{ mock.Mock }

func (m *MockBoard) Move(ctx context.Context, id kernel.UUID, from, to order.Status) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockBoard) ConfirmWeighing(
	ctx context.Context,
	id kernel.UUID,
	drafts []services.WeighingDraft,
	next order.Status,
) (*order.Order, error) {
	args := m.Called(ctx, id, drafts, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockBoard) PrintReceipt(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBoard) LoadAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
