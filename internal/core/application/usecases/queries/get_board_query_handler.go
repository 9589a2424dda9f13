package queries

import (
	"context"

	"orderboard/internal/core/domain/services"
)

// GetBoardQueryHandler maps the board snapshot to its read model.
type GetBoardQueryHandler struct {
	board      BoardReader
	calculator services.WeighingCalculator
}

// NewGetBoardQueryHandler creates a handler reading from board.
func NewGetBoardQueryHandler(board BoardReader) GetBoardQueryHandler {
	return GetBoardQueryHandler{board: board, calculator: services.NewWeighingCalculator()}
}

// Handle returns the columns in board order, newest first.
func (h GetBoardQueryHandler) Handle(_ context.Context, query GetBoardQuery) (GetBoardQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetBoardQueryResponse{}, err
	}

	snapshot := h.board.Snapshot()
	resp := GetBoardQueryResponse{
		Placed:       newOrderCards(snapshot.Placed, h.calculator),
		InSeparation: newOrderCards(snapshot.InSeparation, h.calculator),
		Finalized:    newOrderCards(snapshot.Finalized, h.calculator),
		Loading:      snapshot.Loading,
	}
	if snapshot.LastError != nil {
		resp.LastError = snapshot.LastError.Error()
	}
	return resp, nil
}
