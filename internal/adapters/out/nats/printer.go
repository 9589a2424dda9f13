// Package nats publishes print jobs to the printing service over NATS.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/ports"
	"orderboard/internal/pkg/errs"
	"orderboard/internal/pkg/metrics"

	"github.com/nats-io/nats.go"
)

const DefaultSubjectPrefix = "orderboard.print"

// Publisher is the part of *nats.Conn used by the printer.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Printer implements ports.Printer by publishing PrintJob messages.
//
// Publishing is fire-and-forget: failures are logged and counted, never returned.
type Printer struct {
	publisher Publisher
	prefix    string
	metrics   *metrics.BoardMetrics
	logger    *slog.Logger
	now       func() time.Time
}

var _ ports.Printer = (*Printer)(nil)

// NewPrinter creates a printer publishing under prefix (DefaultSubjectPrefix when empty).
func NewPrinter(publisher Publisher, prefix string, m *metrics.BoardMetrics, logger *slog.Logger) (*Printer, error) {
	if publisher == nil {
		return nil, errs.NewValueIsRequiredError("publisher")
	}
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Printer{
		publisher: publisher,
		prefix:    prefix,
		metrics:   m,
		logger:    logger.With("component", "nats-printer"),
		now:       time.Now,
	}, nil
}

// Connect opens a NATS connection that keeps reconnecting in the background.
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("orderboard"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

// PrintProductionTicket publishes a production ticket job.
func (p *Printer) PrintProductionTicket(ctx context.Context, o *order.Order) {
	p.publish(ctx, KindProductionTicket, o)
}

// PrintReceipt publishes a receipt job.
func (p *Printer) PrintReceipt(ctx context.Context, o *order.Order) {
	p.publish(ctx, KindReceipt, o)
}

// Subject returns the subject jobs of kind are published on.
func (p *Printer) Subject(kind string) string {
	return p.prefix + "." + kind
}

func (p *Printer) publish(ctx context.Context, kind string, o *order.Order) {
	if err := o.Validate(); err != nil {
		p.logger.ErrorContext(ctx, "Refusing to print invalid order", "kind", kind, "error", err)
		p.metrics.Print(kind, "error")
		return
	}

	logger := p.logger.With("kind", kind, "order_id", o.ID().String())

	data, err := json.Marshal(newPrintJob(kind, o, p.now()))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to encode print job", "error", err)
		p.metrics.Print(kind, "error")
		return
	}

	if err = p.publisher.Publish(p.Subject(kind), data); err != nil {
		logger.ErrorContext(ctx, "Failed to publish print job", "error", err)
		p.metrics.Print(kind, "error")
		return
	}

	logger.InfoContext(ctx, "Print job published")
	p.metrics.Print(kind, "ok")
}
