package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "orderboard/internal/adapters/in/http"
	natsprinter "orderboard/internal/adapters/out/nats"
	"orderboard/internal/adapters/out/postgres"
	"orderboard/internal/adapters/out/postgres/changefeed"
	"orderboard/internal/adapters/out/printlog"
	"orderboard/internal/core/application/board"
	"orderboard/internal/core/application/realtime"
	"orderboard/internal/core/application/usecases/commands"
	"orderboard/internal/core/application/usecases/queries"
	"orderboard/internal/core/ports"
	"orderboard/internal/jobs"
	"orderboard/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	logger     *slog.Logger
	registry   *prometheus.Registry
	metrics    *metrics.BoardMetrics
	orders     *postgres.OrderClient
	printer    ports.Printer
	natsConn   *nats.Conn
	store      *board.Store
	reconciler *realtime.Reconciler
	jobManager *jobs.JobManager
}

// NewCompositionRoot wires the board against an open database. Migrate must have run.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewBoardMetrics(registry)

	orders, err := postgres.NewOrderClient(postgres.NewGormUnitOfWorkFactory(gormDB))
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		config:   config,
		logger:   logger,
		registry: registry,
		metrics:  m,
		orders:   orders,
	}

	if c.printer, err = c.createPrinter(); err != nil {
		return nil, err
	}

	c.store, err = board.NewStore(orders, c.printer,
		board.WithMetrics(m),
		board.WithLogger(logger),
	)
	if err != nil {
		c.Close()
		return nil, err
	}

	feed, err := changefeed.NewFeed(config.DSN(), changefeed.WithLogger(logger))
	if err != nil {
		c.Close()
		return nil, err
	}
	c.reconciler, err = realtime.NewReconciler(feed, orders, c.store, c.printer, m, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.jobManager = jobs.NewJobManager(c.CreateReloadBoardCommandHandler(), config.ReconcileSchedule, logger)
	return c, nil
}

// createPrinter publishes print jobs on NATS when NATS_URL is set and falls back to
// logging them otherwise.
func (c *CompositionRoot) createPrinter() (ports.Printer, error) {
	if c.config.NatsURL == "" {
		c.logger.Warn("NATS_URL is not set, print jobs are only logged")
		return printlog.NewPrinter(c.logger, c.metrics), nil
	}

	conn, err := natsprinter.Connect(c.config.NatsURL, c.logger)
	if err != nil {
		return nil, err
	}
	c.natsConn = conn

	printer, err := natsprinter.NewPrinter(conn, c.config.PrintSubject, c.metrics, c.logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return printer, nil
}

func (c *CompositionRoot) CreateMoveOrderCommandHandler() commands.MoveOrderCommandHandler {
	return commands.NewMoveOrderCommandHandler(c.store)
}

func (c *CompositionRoot) CreateConfirmWeighingCommandHandler() commands.ConfirmWeighingCommandHandler {
	return commands.NewConfirmWeighingCommandHandler(c.store)
}

func (c *CompositionRoot) CreatePrintReceiptCommandHandler() commands.PrintReceiptCommandHandler {
	return commands.NewPrintReceiptCommandHandler(c.store)
}

func (c *CompositionRoot) CreateReloadBoardCommandHandler() commands.ReloadBoardCommandHandler {
	return commands.NewReloadBoardCommandHandler(c.store)
}

func (c *CompositionRoot) CreateGetBoardQueryHandler() queries.GetBoardQueryHandler {
	return queries.NewGetBoardQueryHandler(c.store)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.store)
}

// CreateRouter builds the HTTP entry point.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := httpadapter.NewServer(
		c.CreateMoveOrderCommandHandler(),
		c.CreateConfirmWeighingCommandHandler(),
		c.CreatePrintReceiptCommandHandler(),
		c.CreateReloadBoardCommandHandler(),
		c.CreateGetBoardQueryHandler(),
		c.CreateGetOrderQueryHandler(),
		c.logger,
	)
	return httpadapter.NewRouter(server, httpadapter.RouterConfig{
		Metrics:  c.metrics,
		Gatherer: c.registry,
		Logger:   c.logger,
	})
}

// Start subscribes to the change feed, loads the board and schedules the
// reconciliation job. A failed initial load is logged: the board shows the error and
// the next reload retries it.
func (c *CompositionRoot) Start(ctx context.Context) error {
	if err := c.reconciler.Start(ctx); err != nil {
		return fmt.Errorf("start realtime reconciliation: %w", err)
	}

	if err := c.CreateReloadBoardCommandHandler().Handle(ctx, commands.NewReloadBoardCommand()); err != nil {
		c.logger.ErrorContext(ctx, "Initial board load failed", "error", err)
	}

	if err := c.jobManager.StartAll(); err != nil {
		return errors.Join(err, c.reconciler.Stop())
	}
	return nil
}

// Close stops the background work and releases connections. It is safe to call on a
// partially wired root.
func (c *CompositionRoot) Close() {
	if c.jobManager != nil {
		c.jobManager.StopAll()
	}
	if c.reconciler != nil {
		if err := c.reconciler.Stop(); err != nil {
			c.logger.Error("Failed to stop realtime reconciliation", "error", err)
		}
	}
	if c.natsConn != nil {
		if err := c.natsConn.Drain(); err != nil {
			c.natsConn.Close()
		}
	}
}
