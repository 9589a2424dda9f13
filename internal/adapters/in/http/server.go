// Package http exposes the order board over a JSON API served by echo.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"orderboard/internal/core/application/board"
	"orderboard/internal/core/application/usecases/commands"
	"orderboard/internal/core/application/usecases/queries"
	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/domain/services"
	"orderboard/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Server implements ServerInterface on top of the board use cases.
type Server struct {
	// Command handlers
	moveOrderHandler       commands.MoveOrderCommandHandler
	confirmWeighingHandler commands.ConfirmWeighingCommandHandler
	printReceiptHandler    commands.PrintReceiptCommandHandler
	reloadBoardHandler     commands.ReloadBoardCommandHandler

	// Query handlers
	getBoardHandler queries.GetBoardQueryHandler
	getOrderHandler queries.GetOrderQueryHandler

	logger *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	moveOrderHandler commands.MoveOrderCommandHandler,
	confirmWeighingHandler commands.ConfirmWeighingCommandHandler,
	printReceiptHandler commands.PrintReceiptCommandHandler,
	reloadBoardHandler commands.ReloadBoardCommandHandler,
	getBoardHandler queries.GetBoardQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		moveOrderHandler:       moveOrderHandler,
		confirmWeighingHandler: confirmWeighingHandler,
		printReceiptHandler:    printReceiptHandler,
		reloadBoardHandler:     reloadBoardHandler,
		getBoardHandler:        getBoardHandler,
		getOrderHandler:        getOrderHandler,
		logger:                 logger.With("component", "http"),
	}
}

// GetBoard handles GET /api/v1/board.
func (s *Server) GetBoard(ctx echo.Context) error {
	resp, err := s.getBoardHandler.Handle(ctx.Request().Context(), queries.NewGetBoardQuery())
	if err != nil {
		return s.fail(ctx, err, "Failed to read board")
	}

	body := Board{
		Placed:       toOrders(resp.Placed),
		InSeparation: toOrders(resp.InSeparation),
		Finalized:    toOrders(resp.Finalized),
		Loading:      resp.Loading,
	}
	if resp.LastError != "" {
		body.LastError = &resp.LastError
	}
	return ctx.JSON(http.StatusOK, body)
}

// ReloadBoard handles POST /api/v1/board/reload.
func (s *Server) ReloadBoard(ctx echo.Context) error {
	if err := s.reloadBoardHandler.Handle(ctx.Request().Context(), commands.NewReloadBoardCommand()); err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "Board reload failed", "error", err)
		return ctx.JSON(http.StatusBadGateway, Error{
			Code:    http.StatusBadGateway,
			Message: "Failed to reload board",
		})
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := toOrderID(orderId)
	if err != nil {
		return s.fail(ctx, err, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(ctx, err, "Invalid order id")
	}

	card, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, "Failed to read order")
	}
	return ctx.JSON(http.StatusOK, toOrder(card))
}

// MoveOrder handles POST /api/v1/orders/{orderId}/move.
func (s *Server) MoveOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	var req MoveOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id, idErr := toOrderID(orderId)
	from, fromErr := order.ParseStatus(req.From)
	to, toErr := order.ParseStatus(req.To)
	if err := errors.Join(idErr, fromErr, toErr); err != nil {
		return s.fail(ctx, err, "Invalid move")
	}

	cmd, err := commands.NewMoveOrderCommand(id, from, to)
	if err != nil {
		return s.fail(ctx, err, "Invalid move")
	}

	if err = s.moveOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err, "Failed to move order")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmWeighing handles POST /api/v1/orders/{orderId}/weighing.
func (s *Server) ConfirmWeighing(ctx echo.Context, orderId openapi_types.UUID) error {
	var req WeighingRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id, idErr := toOrderID(orderId)
	next, nextErr := order.ParseStatus(req.NextStatus)
	if err := errors.Join(idErr, nextErr); err != nil {
		return s.fail(ctx, err, "Invalid weighing")
	}

	drafts := make([]services.WeighingDraft, 0, len(req.Items))
	for _, item := range req.Items {
		itemID, err := toOrderID(item.ItemId)
		if err != nil {
			return s.fail(ctx, err, "Invalid weighing")
		}
		drafts = append(drafts, services.WeighingDraft{ItemID: itemID, WeightInput: item.Weight})
	}

	cmd, err := commands.NewConfirmWeighingCommand(id, drafts, next)
	if err != nil {
		return s.fail(ctx, err, "Invalid weighing")
	}

	if _, err = s.confirmWeighingHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err, "Failed to confirm weighing")
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(ctx, err, "Invalid order id")
	}
	card, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, "Failed to read order")
	}
	return ctx.JSON(http.StatusOK, toOrder(card))
}

// PrintReceipt handles POST /api/v1/orders/{orderId}/receipt.
func (s *Server) PrintReceipt(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := toOrderID(orderId)
	if err != nil {
		return s.fail(ctx, err, "Invalid order id")
	}

	cmd, err := commands.NewPrintReceiptCommand(id)
	if err != nil {
		return s.fail(ctx, err, "Invalid order id")
	}

	if err = s.printReceiptHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err, "Failed to print receipt")
	}
	return ctx.NoContent(http.StatusAccepted)
}

// fail maps use case errors onto HTTP statuses.
func (s *Server) fail(ctx echo.Context, err error, message string) error {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), message, "error", err, "path", ctx.Path())
	}
	return ctx.JSON(code, Error{Code: code, Message: message + ": " + err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, board.ErrRemoteWriteFailed):
		return http.StatusBadGateway
	case errors.Is(err, board.ErrOrderNotOnBoard):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

func toOrderID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}
