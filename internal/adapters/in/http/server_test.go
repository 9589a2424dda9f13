package http_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "orderboard/internal/adapters/in/http"
	"orderboard/internal/core/application/board"
	"orderboard/internal/core/application/usecases/commands"
	"orderboard/internal/core/application/usecases/queries"
	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/domain/services"
	"orderboard/internal/pkg/errs"
	"orderboard/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

func (m *MockBoard) Snapshot() board.Board {
	args := m.Called()
	return args.Get(0).(board.Board)
}

func (m *MockBoard) Find(id kernel.UUID) (*order.Order, bool) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*order.Order), args.Bool(1)
}

type fixture struct {
	board    *MockBoard
	registry *prometheus.Registry
	e        *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := &MockBoard{}
	registry := prometheus.NewRegistry()

	server := httpadapter.NewServer(
		commands.NewMoveOrderCommandHandler(b),
		commands.NewConfirmWeighingCommandHandler(b),
		commands.NewPrintReceiptCommandHandler(b),
		commands.NewReloadBoardCommandHandler(b),
		queries.NewGetBoardQueryHandler(b),
		queries.NewGetOrderQueryHandler(b),
		nil,
	)
	e, err := httpadapter.NewRouter(server, httpadapter.RouterConfig{
		Metrics:  metrics.NewBoardMetrics(registry),
		Gatherer: registry,
	})
	require.NoError(t, err)

	return &fixture{board: b, registry: registry, e: e}
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func newCardOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	weight := decimal.RequireFromString("1.25")
	item, err := order.RestoreItem(order.ItemParams{
		ID:           kernel.NewUUID(),
		Product:      order.Product{ID: kernel.NewUUID(), Name: "Maminha", Unit: "kg"},
		Quantity:     decimal.NewFromInt(1),
		ActualWeight: &weight,
		UnitPrice:    decimal.RequireFromString("39.9"),
		LineTotal:    decimal.RequireFromString("49.88"),
	})
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:        kernel.NewUUID(),
		Status:    status,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Total:     decimal.RequireFromString("49.88"),
		Customer:  order.Customer{Name: "Eva"},
		Items:     []order.Item{item},
	})
	require.NoError(t, err)
	return o
}

func TestHealth(t *testing.T) {
	rec := newFixture(t).do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestGetBoard(t *testing.T) {
	f := newFixture(t)
	o := newCardOrder(t, order.InSeparation)
	f.board.On("Snapshot").Return(board.Board{
		InSeparation: []*order.Order{o},
		LastError:    fmt.Errorf("list finalized orders: timeout"),
	})

	rec := f.do(http.MethodGet, "/api/v1/board", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"placed":[]`)
	assert.Contains(t, body, `"id":"`+o.ID().String()+`"`)
	assert.Contains(t, body, `"total":"49.88"`)
	assert.Contains(t, body, `"unitPrice":"39.90"`)
	assert.Contains(t, body, `"actualWeight":"1.25"`)
	assert.Contains(t, body, `"weightInput":"1.25"`)
	assert.Contains(t, body, `"lastError":"list finalized orders: timeout"`)
}

func TestMoveOrder(t *testing.T) {
	id := kernel.NewUUID()
	target := "/api/v1/orders/" + id.String() + "/move"

	t.Run("should move", func(t *testing.T) {
		f := newFixture(t)
		f.board.On("Move", mock.Anything, id, order.Placed, order.InSeparation).Return(nil).Once()

		rec := f.do(http.MethodPost, target, `{"from":"placed","to":"in_separation"}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.board.AssertExpectations(t)
	})

	t.Run("should reject unknown statuses before the board", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, target, `{"from":"placed","to":"shipped"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.board.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should reject malformed ids", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders/42/move", `{"from":"placed","to":"in_separation"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	tests := []struct {
		name string
		err  error
		code int
	}{
		{
			name: "illegal transition",
			err:  errs.NewValueIsInvalidErrorWithCause("status transition", order.ErrTransitionIsNotAllowed),
			code: http.StatusUnprocessableEntity,
		},
		{
			name: "unweighed items",
			err:  errs.NewValueIsInvalidErrorWithCause("items", services.ErrItemsNotWeighed),
			code: http.StatusUnprocessableEntity,
		},
		{
			name: "not in column",
			err:  errs.NewObjectNotFoundErrorWithCause("order", id.String(), board.ErrOrderNotOnBoard),
			code: http.StatusConflict,
		},
		{
			name: "remote failure",
			err:  fmt.Errorf("%w: move order: %w", board.ErrRemoteWriteFailed, errs.NewObjectNotFoundError("order", id.String())),
			code: http.StatusBadGateway,
		},
		{
			name: "unexpected",
			err:  fmt.Errorf("load order for finalization: connection reset"),
			code: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run("should map "+tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.board.On("Move", mock.Anything, id, order.InSeparation, order.Finalized).Return(tt.err).Once()

			rec := f.do(http.MethodPost, target, `{"from":"in_separation","to":"finalized"}`)

			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), fmt.Sprintf(`"code":%d`, tt.code))
		})
	}
}

func TestConfirmWeighing(t *testing.T) {
	t.Run("should pass raw inputs and return the card", func(t *testing.T) {
		f := newFixture(t)
		o := newCardOrder(t, order.Finalized)
		itemID := o.Items()[0].ID()
		drafts := []services.WeighingDraft{{ItemID: itemID, WeightInput: "1,25"}}
		f.board.On("ConfirmWeighing", mock.Anything, o.ID(), drafts, order.Finalized).Return(o, nil).Once()
		f.board.On("Find", o.ID()).Return(o, true).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/weighing",
			`{"items":[{"itemId":"`+itemID.String()+`","weight":"1,25"}],"nextStatus":"finalized"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"finalized"`)
		f.board.AssertExpectations(t)
	})

	t.Run("should reject a body without items", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/weighing",
			`{"nextStatus":"finalized"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject exponent weights before the board", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/weighing",
			`{"items":[{"itemId":"`+kernel.NewUUID().String()+`","weight":"1e400"}],"nextStatus":"finalized"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.board.AssertNotCalled(t, "ConfirmWeighing", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should reject duplicated lines", func(t *testing.T) {
		f := newFixture(t)
		itemID := kernel.NewUUID().String()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/weighing",
			`{"items":[{"itemId":"`+itemID+`","weight":"1"},{"itemId":"`+itemID+`","weight":"2"}],"nextStatus":"finalized"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestPrintReceipt(t *testing.T) {
	f := newFixture(t)
	id := kernel.NewUUID()
	f.board.On("PrintReceipt", mock.Anything, id).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+id.String()+"/receipt", "")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	f.board.AssertExpectations(t)
}

func TestReloadBoard(t *testing.T) {
	f := newFixture(t)
	mock.InOrder(
		f.board.On("LoadAll", mock.Anything).Return(nil).Once(),
		f.board.On("LoadAll", mock.Anything).Return(fmt.Errorf("list placed orders: timeout")).Once(),
	)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/api/v1/board/reload", "").Code)
	assert.Equal(t, http.StatusBadGateway, f.do(http.MethodPost, "/api/v1/board/reload", "").Code)
}

func TestGetOrder_NotOnBoard(t *testing.T) {
	f := newFixture(t)
	id := kernel.NewUUID()
	f.board.On("Find", id).Return(nil, false).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsAndSwagger(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodGet, "/health", "")

	rec := f.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `orderboard_http_requests_total{handler="/health",status="200"} 1`)

	rec = f.do(http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order board")
}
