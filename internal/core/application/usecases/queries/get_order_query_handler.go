package queries

import (
	"context"

	"orderboard/internal/core/domain/services"
	"orderboard/internal/pkg/errs"
)

// GetOrderQueryHandler reads one order from the board.
type GetOrderQueryHandler struct {
	board      OrderFinder
	calculator services.WeighingCalculator
}

// NewGetOrderQueryHandler creates a handler reading from board.
func NewGetOrderQueryHandler(board OrderFinder) GetOrderQueryHandler {
	return GetOrderQueryHandler{board: board, calculator: services.NewWeighingCalculator()}
}

// Handle returns errs.ErrObjectNotFound when no column holds the order.
func (h GetOrderQueryHandler) Handle(_ context.Context, query GetOrderQuery) (OrderCard, error) {
	if err := query.Validate(); err != nil {
		return OrderCard{}, err
	}

	o, ok := h.board.Find(query.OrderID())
	if !ok {
		return OrderCard{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	return newOrderCard(o, h.calculator), nil
}
