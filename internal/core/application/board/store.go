package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/domain/services"
	"orderboard/internal/core/ports"
	"orderboard/internal/pkg/errs"
	"orderboard/internal/pkg/metrics"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrOrderNotOnBoard is the cause used when an operation targets an order that is not
	// in the expected column. It signals a desynchronized caller, not a user mistake.
	ErrOrderNotOnBoard = errors.New("order is not on the board")

	// ErrRemoteWriteFailed wraps every failed write to the order store. The board has
	// already been reloaded when it is returned.
	ErrRemoteWriteFailed = errors.New("remote write failed")
)

// Store owns the order board.
//
// Every mutation takes the operation lock for its whole remote-then-local sequence, so
// two operations never interleave. Late responses of an operation are applied as
// current; there is no cancellation of in-flight writes.
type Store struct {
	orders     ports.OrderRepository
	printer    ports.Printer
	validator  *services.TransitionValidator
	calculator services.WeighingCalculator
	metrics    *metrics.BoardMetrics
	logger     *slog.Logger
	now        func() time.Time

	opMu sync.Mutex

	mu    sync.RWMutex
	board Board
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics records transitions, reloads and column sizes on m.
func WithMetrics(m *metrics.BoardMetrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock replaces time.Now for finalization stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty board backed by orders. Call LoadAll to fill it.
func NewStore(orders ports.OrderRepository, printer ports.Printer, opts ...Option) (*Store, error) {
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("orders")
	}
	if printer == nil {
		return nil, errs.NewValueIsRequiredError("printer")
	}

	validator, err := services.NewTransitionValidator(orders)
	if err != nil {
		return nil, err
	}

	s := &Store{
		orders:     orders,
		printer:    printer,
		validator:  validator,
		calculator: services.NewWeighingCalculator(),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "board_store")
	return s, nil
}

// Snapshot returns the current board.
func (s *Store) Snapshot() Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// Find looks an order up on the current board.
func (s *Store) Find(id kernel.UUID) (*order.Order, bool) {
	return s.Snapshot().Find(id)
}

// LoadAll replaces the board with the orders of the three statuses, loaded concurrently.
//
// On failure the previous columns are kept, LastError is set and the error is returned.
func (s *Store) LoadAll(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	return s.reload(ctx)
}

// Move changes the status of an order from one column to another.
//
// Flow:
//  1. The transition is validated (edge and gates); a rejection leaves everything untouched
//  2. The order must be in the from column, otherwise ErrOrderNotOnBoard is returned
//  3. The new status is written to the order store; on failure the board is reloaded and
//     an error wrapping ErrRemoteWriteFailed is returned
//  4. The order is moved to the head of the to column and the column is resorted
//
// An order landing in Placed from another status gets a production ticket printed.
func (s *Store) Move(ctx context.Context, id kernel.UUID, from, to order.Status) error {
	moved, err := s.move(ctx, id, from, to)
	s.metrics.Transition(from.String(), to.String(), outcome(err))
	if err != nil {
		return err
	}

	s.printOnPlaced(ctx, from, moved)
	return nil
}

func (s *Store) move(ctx context.Context, id kernel.UUID, from, to order.Status) (*order.Order, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.validator.Validate(ctx, id, from, to); err != nil {
		return nil, err
	}

	current, status, ok := s.Snapshot().locate(id)
	if !ok || status != from {
		return nil, notOnBoard(id, from)
	}

	if err := s.orders.UpdateStatus(ctx, id, to); err != nil {
		s.reloadAfterFailedWrite(ctx)
		return nil, fmt.Errorf("%w: move order %s to %s: %w", ErrRemoteWriteFailed, id, to, err)
	}

	moved, err := current.WithStatus(to, s.now())
	if err != nil {
		return nil, err
	}
	s.apply(func(b Board) Board { return b.without(id).with(moved) })

	s.logger.InfoContext(ctx, "Order moved", "order_id", id.String(), "from", from.String(), "to", to.String())
	return moved, nil
}

// ConfirmWeighing records weighing drafts and moves the order to next.
//
// Drafts are matched to the order items by id. Items without a draft, or with an input
// that does not parse (empty included), keep their current weight and line total: a
// draft can set a weight but never clear one. Line totals and the order total are
// computed from the unit prices of the items being weighed.
//
// Moving to Finalized reads the order from the order store first and works on its items
// instead of the board copy, so every authoritative item must already be weighed or be
// covered by a parseable draft.
//
// Items, total and status are written in one call to the order store; on failure the
// board is reloaded and an error wrapping ErrRemoteWriteFailed is returned.
func (s *Store) ConfirmWeighing(ctx context.Context, id kernel.UUID, drafts []services.WeighingDraft, next order.Status) (*order.Order, error) {
	from, updated, err := s.confirmWeighing(ctx, id, drafts, next)
	s.metrics.Transition(from.String(), next.String(), outcome(err))
	if err != nil {
		return nil, err
	}

	s.printOnPlaced(ctx, from, updated)
	return updated, nil
}

func (s *Store) confirmWeighing(ctx context.Context, id kernel.UUID, drafts []services.WeighingDraft, next order.Status) (order.Status, *order.Order, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	current, from, ok := s.Snapshot().locate(id)
	if !ok {
		return order.Unknown, nil, notOnBoard(id, order.Unknown)
	}

	if _, err := s.validator.ValidateTransition(from, next); err != nil {
		return from, nil, err
	}

	base := current
	if next == order.Finalized {
		authoritative, err := s.orders.Get(ctx, id)
		if err != nil {
			return from, nil, fmt.Errorf("load order %s for finalization: %w", id, err)
		}
		base = authoritative
	}

	weighed, updates, total, err := s.applyDrafts(base, drafts)
	if err != nil {
		return from, nil, err
	}

	updated, err := base.WithWeighing(weighed, total, next, s.now())
	if err != nil {
		return from, nil, err
	}
	if next == order.Finalized && !updated.AllItemsWeighed() {
		return from, nil, errs.NewValueIsInvalidErrorWithCause("items", services.ErrItemsNotWeighed)
	}

	if err = s.orders.UpdateItemsAndStatus(ctx, id, updates, total, next); err != nil {
		s.reloadAfterFailedWrite(ctx)
		return from, nil, fmt.Errorf("%w: confirm weighing of order %s: %w", ErrRemoteWriteFailed, id, err)
	}

	s.apply(func(b Board) Board { return b.without(id).with(updated) })

	s.logger.InfoContext(ctx, "Weighing confirmed",
		"order_id", id.String(), "from", from.String(), "to", next.String(), "total", total.StringFixed(2))
	return from, updated, nil
}

// applyDrafts computes the weighed items, the store updates and the new order total.
func (s *Store) applyDrafts(current *order.Order, drafts []services.WeighingDraft) ([]order.Item, []ports.ItemUpdate, decimal.Decimal, error) {
	inputs := make(map[kernel.UUID]string, len(drafts))
	for _, d := range drafts {
		if _, ok := current.Item(d.ItemID); !ok {
			return nil, nil, decimal.Zero, errs.NewValueIsInvalidErrorWithCause(
				"item id", fmt.Errorf("%w: %s", order.ErrItemIsNotOnOrder, d.ItemID))
		}
		inputs[d.ItemID] = d.WeightInput
	}

	var (
		weighed []order.Item
		updates []ports.ItemUpdate
		lines   []decimal.Decimal
	)
	for _, item := range current.Items() {
		input, drafted := inputs[item.ID()]
		weight, ok := s.calculator.ParseWeight(input)
		if !drafted || !ok {
			lines = append(lines, item.LineTotal())
			continue
		}

		line := s.calculator.LineTotal(input, item.UnitPrice())
		w, err := item.Weighed(weight, line)
		if err != nil {
			return nil, nil, decimal.Zero, err
		}
		weighed = append(weighed, w)
		updates = append(updates, ports.ItemUpdate{ItemID: item.ID(), ActualWeight: weight, LineTotal: line})
		lines = append(lines, line)
	}

	return weighed, updates, s.calculator.OrderTotal(lines...), nil
}

// Upsert puts o in the column of its status, removing it from any other column first.
// An order whose status is not valid ends up in no column.
//
// Returns the status of the column that held the order before, and whether it was on
// the board at all.
func (s *Store) Upsert(o *order.Order) (order.Status, bool) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	_, previous, known := s.Snapshot().locate(o.ID())
	s.apply(func(b Board) Board { return b.without(o.ID()).with(o) })
	return previous, known
}

// Remove deletes id from every column. Removing an absent id is a no-op.
func (s *Store) Remove(id kernel.UUID) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	_, _, known := s.Snapshot().locate(id)
	if known {
		s.apply(func(b Board) Board { return b.without(id) })
	}
	return known
}

// PrintReceipt prints the receipt of a finalized order on the board.
func (s *Store) PrintReceipt(ctx context.Context, id kernel.UUID) error {
	o, status, ok := s.Snapshot().locate(id)
	if !ok || status != order.Finalized {
		return notOnBoard(id, order.Finalized)
	}
	s.printer.PrintReceipt(ctx, o)
	return nil
}

// reload must be called with the operation lock held.
func (s *Store) reload(ctx context.Context) error {
	s.apply(func(b Board) Board {
		b.Loading = true
		return b
	})

	var placed, inSeparation, finalized []*order.Order
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		placed, err = s.orders.ListByStatus(gctx, order.Placed)
		return err
	})
	g.Go(func() (err error) {
		inSeparation, err = s.orders.ListByStatus(gctx, order.InSeparation)
		return err
	})
	g.Go(func() (err error) {
		finalized, err = s.orders.ListByStatus(gctx, order.Finalized)
		return err
	})

	if err := g.Wait(); err != nil {
		err = fmt.Errorf("load board: %w", err)
		s.apply(func(b Board) Board {
			b.Loading = false
			b.LastError = err
			return b
		})
		s.metrics.Reload("error")
		s.logger.ErrorContext(ctx, "Board reload failed", "error", err)
		return err
	}

	next := newBoard(placed, inSeparation, finalized)
	s.apply(func(Board) Board { return next })
	s.metrics.Reload("ok")
	s.logger.InfoContext(ctx, "Board reloaded",
		"placed", len(next.Placed), "in_separation", len(next.InSeparation), "finalized", len(next.Finalized))
	return nil
}

func (s *Store) reloadAfterFailedWrite(ctx context.Context) {
	if err := s.reload(ctx); err != nil {
		s.logger.WarnContext(ctx, "Board left stale after failed write", "error", err)
	}
}

// apply publishes the board produced by fn.
func (s *Store) apply(fn func(Board) Board) {
	s.mu.Lock()
	s.board = fn(s.board)
	sizes := s.board.sizes()
	s.mu.Unlock()

	s.metrics.Buckets(sizes)
}

func (s *Store) printOnPlaced(ctx context.Context, from order.Status, o *order.Order) {
	if o.Status() != order.Placed || from == order.Placed {
		return
	}
	s.logger.InfoContext(ctx, "Printing production ticket", "order_id", o.ID().String())
	s.printer.PrintProductionTicket(ctx, o)
}

func notOnBoard(id kernel.UUID, expected order.Status) error {
	where := "any column"
	if expected != order.Unknown {
		where = expected.String() + " column"
	}
	return errs.NewObjectNotFoundErrorWithCause("order", id.String(), fmt.Errorf("%w: expected in %s", ErrOrderNotOnBoard, where))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRemoteWriteFailed):
		return "remote_error"
	case errors.Is(err, errs.ErrValueIsInvalid):
		return "rejected"
	default:
		return "error"
	}
}
