// Package printlog provides a ports.Printer that only logs print requests. It is used
// when no printing service is configured.
package printlog

import (
	"context"
	"log/slog"

	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/ports"
	"orderboard/internal/pkg/metrics"
)

// Printer logs every print request at INFO.
type Printer struct {
	logger  *slog.Logger
	metrics *metrics.BoardMetrics
}

var _ ports.Printer = (*Printer)(nil)

// NewPrinter creates a logging printer. A nil logger falls back to slog.Default().
func NewPrinter(logger *slog.Logger, m *metrics.BoardMetrics) *Printer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Printer{logger: logger.With("component", "printlog"), metrics: m}
}

func (p *Printer) PrintProductionTicket(ctx context.Context, o *order.Order) {
	p.log(ctx, "production_ticket", o)
}

func (p *Printer) PrintReceipt(ctx context.Context, o *order.Order) {
	p.log(ctx, "receipt", o)
}

func (p *Printer) log(ctx context.Context, kind string, o *order.Order) {
	if err := o.Validate(); err != nil {
		p.logger.ErrorContext(ctx, "Refusing to print invalid order", "kind", kind, "error", err)
		p.metrics.Print(kind, "error")
		return
	}

	p.logger.InfoContext(ctx, "Print requested",
		"kind", kind,
		"order_id", o.ID().String(),
		"customer", o.Customer().Name,
		"items", len(o.Items()),
		"total", o.Total().StringFixed(2),
	)
	p.metrics.Print(kind, "logged")
}
