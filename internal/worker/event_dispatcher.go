package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/internal/metrics"
	"github.com/enigmAsad/ticketing-service/internal/service"
	"github.com/enigmAsad/ticketing-service/pkg/logger"
	"github.com/enigmAsad/ticketing-service/pkg/retry"
	"go.uber.org/zap"
)

// Drop reasons reported to metrics
const (
	DropReasonBufferFull     = "buffer_full"
	DropReasonStopped        = "stopped"
	DropReasonDeliveryFailed = "delivery_failed"
)

// EventDispatcherConfig holds configuration for the event dispatcher
type EventDispatcherConfig struct {
	// BufferSize is the number of booking events held before new ones are dropped (default: 1024)
	BufferSize int
	// DeliveryTimeout bounds a single publish attempt (default: 5 seconds)
	DeliveryTimeout time.Duration
	// DrainTimeout bounds delivery of buffered events on stop (default: 10 seconds)
	DrainTimeout time.Duration
	// Retry controls backoff between failed attempts
	Retry *retry.Config
}

// DefaultEventDispatcherConfig returns default configuration
func DefaultEventDispatcherConfig() *EventDispatcherConfig {
	return &EventDispatcherConfig{
		BufferSize:      1024,
		DeliveryTimeout: 5 * time.Second,
		DrainTimeout:    10 * time.Second,
		Retry:           retry.DefaultConfig(),
	}
}

// EventDispatcher decouples booking requests from broker latency.
// It satisfies service.EventPublisher: PublishBookingCreated only enqueues,
// and a single goroutine delivers to the target publisher with retries.
type EventDispatcher struct {
	config *EventDispatcherConfig
	target service.EventPublisher
	log    *logger.Logger

	queue   chan *domain.Booking
	stopCh  chan struct{}
	stopped atomic.Bool
	wg      sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once

	delivered atomic.Int64
	dropped   atomic.Int64
}

// NewEventDispatcher creates a new event dispatcher in front of target
func NewEventDispatcher(cfg *EventDispatcherConfig, target service.EventPublisher, log *logger.Logger) *EventDispatcher {
	defaults := DefaultEventDispatcherConfig()
	if cfg == nil {
		cfg = defaults
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaults.BufferSize
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = defaults.DeliveryTimeout
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = defaults.DrainTimeout
	}
	if cfg.Retry == nil {
		cfg.Retry = defaults.Retry
	}
	if target == nil {
		target = service.NewNoOpEventPublisher()
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &EventDispatcher{
		config: cfg,
		target: target,
		log:    log.With(zap.String("worker", "event_dispatcher")),
		queue:  make(chan *domain.Booking, cfg.BufferSize),
		stopCh: make(chan struct{}),
	}
}

// PublishBookingCreated enqueues the booking without blocking.
// A full buffer or a stopped dispatcher drops the event.
func (d *EventDispatcher) PublishBookingCreated(_ context.Context, booking *domain.Booking) error {
	if booking == nil {
		return errors.New("booking is required")
	}
	if d.stopped.Load() {
		d.drop(booking, DropReasonStopped)
		return nil
	}

	select {
	case d.queue <- booking:
	default:
		d.drop(booking, DropReasonBufferFull)
	}
	return nil
}

// Start launches the delivery loop. Calling it twice has no effect.
func (d *EventDispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		d.wg.Add(1)
		go d.run(ctx)
		d.log.Info("Event dispatcher started", zap.Int("buffer_size", d.config.BufferSize))
	})
}

// Stop stops accepting events, delivers what is buffered and waits for the loop to exit
func (d *EventDispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.stopped.Store(true)
		close(d.stopCh)
	})
	d.wg.Wait()
}

// Close stops the dispatcher and closes the target publisher
func (d *EventDispatcher) Close() error {
	d.Stop()
	return d.target.Close()
}

// Pending returns the number of buffered events
func (d *EventDispatcher) Pending() int {
	return len(d.queue)
}

// Delivered returns the number of events handed to the target
func (d *EventDispatcher) Delivered() int64 {
	return d.delivered.Load()
}

// Dropped returns the number of events that were never delivered
func (d *EventDispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *EventDispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	// cancellation ends the loop; attempts in flight are bounded by DeliveryTimeout
	deliveryCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case <-d.stopCh:
			d.drain()
			return
		case booking := <-d.queue:
			d.deliver(deliveryCtx, booking)
		}
	}
}

// drain delivers buffered events using a fresh context
func (d *EventDispatcher) drain() {
	d.stopped.Store(true)

	ctx, cancel := context.WithTimeout(context.Background(), d.config.DrainTimeout)
	defer cancel()

	n := len(d.queue)
	if n > 0 {
		d.log.Info("Draining buffered booking events", zap.Int("pending", n))
	}
	for {
		select {
		case booking := <-d.queue:
			d.deliver(ctx, booking)
		default:
			d.log.Info("Event dispatcher stopped",
				zap.Int64("delivered", d.Delivered()),
				zap.Int64("dropped", d.Dropped()))
			return
		}
	}
}

func (d *EventDispatcher) deliver(ctx context.Context, booking *domain.Booking) {
	res := retry.Do(ctx, d.config.Retry, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, d.config.DeliveryTimeout)
		defer cancel()
		return d.target.PublishBookingCreated(attemptCtx, booking)
	}, func(attempt int, err error, wait time.Duration) {
		d.log.Warn("Retrying booking event delivery",
			zap.String("booking_id", booking.ID),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	})

	if res.Err != nil {
		d.log.Error("Failed to deliver booking event",
			zap.String("booking_id", booking.ID),
			zap.String("event_id", booking.EventID),
			zap.Int("attempts", res.Attempts),
			zap.NamedError("last_error", res.LastError),
			zap.Error(res.Err))
		d.drop(booking, DropReasonDeliveryFailed)
		return
	}

	d.delivered.Add(1)
	metrics.RecordBookingEventPublished(string(domain.BookingEventCreated))
}

func (d *EventDispatcher) drop(booking *domain.Booking, reason string) {
	d.dropped.Add(1)
	metrics.RecordBookingEventDropped(reason)
	d.log.Warn("Dropped booking event",
		zap.String("booking_id", booking.ID),
		zap.String("reason", reason))
}
