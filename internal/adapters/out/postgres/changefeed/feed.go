// Package changefeed implements ports.ChangeFeed on PostgreSQL LISTEN/NOTIFY.
//
// The orders table triggers installed by the postgres migrations publish every row
// change on the "<entity>_changes" channel. Each subscription owns one dedicated
// listener connection managed by github.com/lib/pq, which reconnects on its own; since
// notifications sent while disconnected are lost, every reconnect is reported to the
// handler as a ports.ChangeResync event.
package changefeed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"orderboard/internal/core/ports"
	"orderboard/internal/pkg/errs"

	"github.com/lib/pq"
)

const (
	defaultMinReconnect = 10 * time.Second
	defaultMaxReconnect = time.Minute
	defaultPingInterval = 90 * time.Second
)

// Listener is the part of *pq.Listener used by the feed.
type Listener interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// ListenerFactory opens a listener; eventCallback receives connection state changes.
type ListenerFactory func(dsn string, eventCallback pq.EventCallbackType) Listener

// Feed is a ports.ChangeFeed backed by LISTEN/NOTIFY.
type Feed struct {
	dsn          string
	newListener  ListenerFactory
	pingInterval time.Duration
	logger       *slog.Logger
}

var _ ports.ChangeFeed = (*Feed)(nil)

// Option configures a Feed.
type Option func(*Feed)

// WithLogger sets the feed's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Feed) {
		f.logger = logger
	}
}

// WithListenerFactory replaces the lib/pq listener, mainly for tests.
func WithListenerFactory(factory ListenerFactory) Option {
	return func(f *Feed) {
		f.newListener = factory
	}
}

// WithPingInterval sets how often an idle listener connection is checked.
func WithPingInterval(interval time.Duration) Option {
	return func(f *Feed) {
		f.pingInterval = interval
	}
}

// NewFeed creates a feed listening on the database at dsn.
func NewFeed(dsn string, opts ...Option) (*Feed, error) {
	if dsn == "" {
		return nil, errs.NewValueIsRequiredError("dsn")
	}

	f := &Feed{
		dsn:          dsn,
		newListener:  newPQListener,
		pingInterval: defaultPingInterval,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("component", "changefeed")
	return f, nil
}

func newPQListener(dsn string, eventCallback pq.EventCallbackType) Listener {
	return pq.NewListener(dsn, defaultMinReconnect, defaultMaxReconnect, eventCallback)
}

// Subscribe starts listening on the entity's channel and delivers decoded events to
// handler, one at a time, until ctx is done or the subscription is released.
func (f *Feed) Subscribe(ctx context.Context, entity string, handler ports.ChangeHandler) (ports.Subscription, error) {
	if entity == "" {
		return nil, errs.NewValueIsRequiredError("entity")
	}
	if handler == nil {
		return nil, errs.NewValueIsRequiredError("handler")
	}

	channel := entity + "_changes"
	logger := f.logger.With("channel", channel)

	listener := f.newListener(f.dsn, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			logger.InfoContext(ctx, "listener connected")
		case pq.ListenerEventDisconnected:
			logger.WarnContext(ctx, "listener disconnected", "error", err)
		case pq.ListenerEventReconnected:
			logger.InfoContext(ctx, "listener reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			logger.WarnContext(ctx, "listener connection attempt failed", "error", err)
		}
	})

	if err := listener.Listen(channel); err != nil {
		_ = listener.Close()
		return nil, err
	}

	sub := &subscription{
		listener: listener,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go sub.run(ctx, f.pingInterval, logger, handler)

	logger.InfoContext(ctx, "subscribed")
	return sub, nil
}

type subscription struct {
	listener Listener
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
	closeErr error
}

func (s *subscription) run(ctx context.Context, pingInterval time.Duration, logger *slog.Logger, handler ports.ChangeHandler) {
	defer close(s.done)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	notifications := s.listener.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			go func() {
				if err := s.listener.Ping(); err != nil {
					logger.WarnContext(ctx, "listener ping failed", "error", err)
				}
			}()
		case n, ok := <-notifications:
			if !ok {
				return
			}
			// lib/pq sends nil after re-establishing the connection.
			if n == nil {
				handler(ctx, ports.ChangeEvent{Type: ports.ChangeResync})
				continue
			}

			event, err := Decode(n.Extra)
			if err != nil {
				logger.ErrorContext(ctx, "dropping malformed notification", "error", err)
				continue
			}
			handler(ctx, event)
		}
	}
}

// Unsubscribe stops the delivery loop and closes the listener connection.
func (s *subscription) Unsubscribe() error {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
		s.closeErr = s.listener.Close()
	})
	return s.closeErr
}
