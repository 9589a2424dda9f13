package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error is the body of every non-2xx JSON response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Board is the response of GET /api/v1/board.
type Board struct {
	Placed       []Order `json:"placed"`
	InSeparation []Order `json:"inSeparation"`
	Finalized    []Order `json:"finalized"`
	Loading      bool    `json:"loading"`
	LastError    *string `json:"lastError,omitempty"`
}

// Order is one order card. Money and weights are decimal strings.
type Order struct {
	Id            openapi_types.UUID `json:"id"`
	Status        string             `json:"status"`
	CreatedAt     time.Time          `json:"createdAt"`
	FinalizedAt   *time.Time         `json:"finalizedAt,omitempty"`
	Total         string             `json:"total"`
	PaymentMethod *string            `json:"paymentMethod,omitempty"`
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone,omitempty"`
	Note          *string            `json:"note,omitempty"`
	Items         []Item             `json:"items"`
}

// Item is one order line.
type Item struct {
	Id              openapi_types.UUID `json:"id"`
	ProductName     string             `json:"productName"`
	Unit            string             `json:"unit,omitempty"`
	Quantity        string             `json:"quantity"`
	RequestedWeight *string            `json:"requestedWeight,omitempty"`
	ActualWeight    *string            `json:"actualWeight,omitempty"`
	UnitPrice       string             `json:"unitPrice"`
	LineTotal       string             `json:"lineTotal"`
	Note            *string            `json:"note,omitempty"`
	WeightInput     string             `json:"weightInput"`
}

// MoveOrderRequest is the body of POST /api/v1/orders/{orderId}/move.
type MoveOrderRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WeighingRequest is the body of POST /api/v1/orders/{orderId}/weighing.
type WeighingRequest struct {
	Items      []WeighingItem `json:"items"`
	NextStatus string         `json:"nextStatus"`
}

// WeighingItem is the typed weight of one line.
type WeighingItem struct {
	ItemId openapi_types.UUID `json:"itemId"`
	Weight string             `json:"weight"`
}

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	GetBoard(ctx echo.Context) error
	ReloadBoard(ctx echo.Context) error
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error
	MoveOrder(ctx echo.Context, orderId openapi_types.UUID) error
	ConfirmWeighing(ctx echo.Context, orderId openapi_types.UUID) error
	PrintReceipt(ctx echo.Context, orderId openapi_types.UUID) error
}

// serverInterfaceWrapper binds path parameters before calling the server.
type serverInterfaceWrapper struct {
	handler ServerInterface
}

func (w *serverInterfaceWrapper) GetBoard(ctx echo.Context) error {
	return w.handler.GetBoard(ctx)
}

func (w *serverInterfaceWrapper) ReloadBoard(ctx echo.Context) error {
	return w.handler.ReloadBoard(ctx)
}

func (w *serverInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.handler.GetOrder(ctx, orderId)
}

func (w *serverInterfaceWrapper) MoveOrder(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.handler.MoveOrder(ctx, orderId)
}

func (w *serverInterfaceWrapper) ConfirmWeighing(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.handler.ConfirmWeighing(ctx, orderId)
}

func (w *serverInterfaceWrapper) PrintReceipt(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.handler.PrintReceipt(ctx, orderId)
}

func bindOrderID(ctx echo.Context) (openapi_types.UUID, error) {
	var orderId openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return orderId, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}
	return orderId, nil
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used to register routes.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts the operations of si on router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := serverInterfaceWrapper{handler: si}

	router.GET("/api/v1/board", wrapper.GetBoard)
	router.POST("/api/v1/board/reload", wrapper.ReloadBoard)
	router.GET("/api/v1/orders/:orderId", wrapper.GetOrder)
	router.POST("/api/v1/orders/:orderId/move", wrapper.MoveOrder)
	router.POST("/api/v1/orders/:orderId/weighing", wrapper.ConfirmWeighing)
	router.POST("/api/v1/orders/:orderId/receipt", wrapper.PrintReceipt)
}
