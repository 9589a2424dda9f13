// Package realtime folds change events pushed by the order store into the board.
package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/domain/services"
	"orderboard/internal/core/ports"
	"orderboard/internal/pkg/errs"
	"orderboard/internal/pkg/metrics"
)

// OrdersEntity is the change feed entity carrying order rows.
const OrdersEntity = "orders"

// ErrAlreadyStarted is returned by Start on a running Reconciler.
var ErrAlreadyStarted = errors.New("reconciler already started")

// BoardStore is the part of the board the reconciler mutates.
type BoardStore interface {
	Upsert(o *order.Order) (order.Status, bool)
	Remove(id kernel.UUID) bool
	LoadAll(ctx context.Context) error
}

// Reconciler keeps the board in line with the change feed.
//
// Business rules:
//   - insert and update events re-read the full order; when the read fails or finds
//     nothing the row image carried by the event is used instead
//   - a production ticket is printed when an update brings an order into Placed from
//     another status, once per transition
//   - delete events remove the order from every column
//   - resync events rebuild the whole board
//
// A failing event is logged and never stops the subscription.
type Reconciler struct {
	feed    ports.ChangeFeed
	orders  services.OrderReader
	store   BoardStore
	printer ports.Printer
	metrics *metrics.BoardMetrics
	logger  *slog.Logger

	mu  sync.Mutex
	sub ports.Subscription
}

// NewReconciler wires a reconciler. m may be nil.
func NewReconciler(feed ports.ChangeFeed, orders services.OrderReader, store BoardStore, printer ports.Printer,
	m *metrics.BoardMetrics, logger *slog.Logger) (*Reconciler, error) {
	if err := errors.Join(
		required("feed", feed == nil),
		required("orders", orders == nil),
		required("store", store == nil),
		required("printer", printer == nil),
		required("logger", logger == nil),
	); err != nil {
		return nil, err
	}

	return &Reconciler{
		feed:    feed,
		orders:  orders,
		store:   store,
		printer: printer,
		metrics: m,
		logger:  logger.With("component", "realtime_reconciler"),
	}, nil
}

// Start subscribes to the orders change feed.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub != nil {
		return ErrAlreadyStarted
	}

	sub, err := r.feed.Subscribe(ctx, OrdersEntity, r.Handle)
	if err != nil {
		return err
	}
	r.sub = sub
	r.logger.InfoContext(ctx, "Realtime reconciliation started", "entity", OrdersEntity)
	return nil
}

// Stop releases the subscription. Stopping a stopped Reconciler is a no-op.
func (r *Reconciler) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub == nil {
		return nil
	}
	err := r.sub.Unsubscribe()
	r.sub = nil
	r.logger.Info("Realtime reconciliation stopped")
	return err
}

// Handle applies one change event to the board.
func (r *Reconciler) Handle(ctx context.Context, event ports.ChangeEvent) {
	logger := r.logger.With("event", event.Type.String(), "order_id", event.OrderID.String())

	if event.Type != ports.ChangeResync && event.OrderID.Validate() != nil {
		logger.WarnContext(ctx, "Dropping change event without order id")
		r.metrics.RealtimeEvent(event.Type.String(), "dropped")
		return
	}

	switch event.Type {
	case ports.ChangeInsert:
		r.handleUpsert(ctx, logger, event, false)
	case ports.ChangeUpdate:
		r.handleUpsert(ctx, logger, event, true)
	case ports.ChangeDelete:
		r.store.Remove(event.OrderID)
		r.metrics.RealtimeEvent(event.Type.String(), "applied")
	case ports.ChangeResync:
		if err := r.store.LoadAll(ctx); err != nil {
			logger.ErrorContext(ctx, "Board resync failed", "error", err)
			r.metrics.RealtimeEvent(event.Type.String(), "failed")
			return
		}
		r.metrics.RealtimeEvent(event.Type.String(), "applied")
	default:
		logger.WarnContext(ctx, "Ignoring change event of unknown type")
		r.metrics.RealtimeEvent(event.Type.String(), "dropped")
	}
}

func (r *Reconciler) handleUpsert(ctx context.Context, logger *slog.Logger, event ports.ChangeEvent, printEdge bool) {
	current, outcome := r.load(ctx, logger, event)
	if current == nil {
		logger.WarnContext(ctx, "Change event skipped, no order detail available")
		r.metrics.RealtimeEvent(event.Type.String(), "dropped")
		return
	}

	previous, known := r.store.Upsert(current)
	r.metrics.RealtimeEvent(event.Type.String(), outcome)

	if !printEdge || current.Status() != order.Placed {
		return
	}
	if oldStatus(event) == order.Placed || (known && previous == order.Placed) {
		return
	}

	logger.InfoContext(ctx, "Printing production ticket", "previous", previous.String())
	r.printer.PrintProductionTicket(ctx, current)
}

// load fetches the authoritative order and falls back to the event row image.
func (r *Reconciler) load(ctx context.Context, logger *slog.Logger, event ports.ChangeEvent) (*order.Order, string) {
	current, err := r.orders.Get(ctx, event.OrderID)
	if err == nil && current != nil {
		return current, "applied"
	}

	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		logger.WarnContext(ctx, "Order detail fetch failed, using event payload", "error", err)
	} else {
		logger.WarnContext(ctx, "Order detail not found, using event payload")
	}

	if event.New == nil || event.New.Order == nil {
		return nil, ""
	}
	return event.New.Order, "payload_fallback"
}

func oldStatus(event ports.ChangeEvent) order.Status {
	if event.Old == nil {
		return order.Unknown
	}
	return event.Old.Status
}

func required(name string, missing bool) error {
	if missing {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
