package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/internal/metrics"
	"github.com/enigmAsad/ticketing-service/pkg/retry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher fails the first failN calls, then records bookings
type recordingPublisher struct {
	mu        sync.Mutex
	failN     int
	failAll   bool
	calls     int
	published []*domain.Booking
	closed    bool
}

func (p *recordingPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failAll || p.calls <= p.failN {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, booking)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *recordingPublisher) snapshot() (calls int, published []*domain.Booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls, append([]*domain.Booking(nil), p.published...)
}

func fastRetry(maxRetries int) *retry.Config {
	return &retry.Config{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      2,
	}
}

func newBooking(t *testing.T, seat int) *domain.Booking {
	t.Helper()
	b, err := domain.NewBooking("event-1", []int{seat}, domain.BookingStatusConfirmed, time.Now())
	require.NoError(t, err)
	return b
}

func TestEventDispatcher_DeliversInOrder(t *testing.T) {
	metrics.Init()
	target := &recordingPublisher{}
	d := NewEventDispatcher(&EventDispatcherConfig{BufferSize: 16, Retry: fastRetry(0)}, target, nil)
	d.Start(context.Background())

	var want []string
	for seat := 1; seat <= 5; seat++ {
		b := newBooking(t, seat)
		want = append(want, b.ID)
		require.NoError(t, d.PublishBookingCreated(context.Background(), b))
	}
	d.Stop()

	_, published := target.snapshot()
	var got []string
	for _, b := range published {
		got = append(got, b.ID)
	}
	assert.Equal(t, want, got)
	assert.EqualValues(t, 5, d.Delivered())
	assert.EqualValues(t, 0, d.Dropped())
}

func TestEventDispatcher_RetriesTransientFailures(t *testing.T) {
	target := &recordingPublisher{failN: 2}
	d := NewEventDispatcher(&EventDispatcherConfig{Retry: fastRetry(3)}, target, nil)
	d.Start(context.Background())

	require.NoError(t, d.PublishBookingCreated(context.Background(), newBooking(t, 1)))
	d.Stop()

	calls, published := target.snapshot()
	assert.Equal(t, 3, calls)
	assert.Len(t, published, 1)
	assert.EqualValues(t, 1, d.Delivered())
}

func TestEventDispatcher_DropsAfterRetriesExhausted(t *testing.T) {
	metrics.Init()
	before := testutil.ToFloat64(metrics.BookingEventsDropped.WithLabelValues(DropReasonDeliveryFailed))

	target := &recordingPublisher{failAll: true}
	d := NewEventDispatcher(&EventDispatcherConfig{Retry: fastRetry(2)}, target, nil)
	d.Start(context.Background())

	require.NoError(t, d.PublishBookingCreated(context.Background(), newBooking(t, 1)))
	d.Stop()

	calls, _ := target.snapshot()
	assert.Equal(t, 3, calls)
	assert.EqualValues(t, 0, d.Delivered())
	assert.EqualValues(t, 1, d.Dropped())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.BookingEventsDropped.WithLabelValues(DropReasonDeliveryFailed)))
}

func TestEventDispatcher_FullBufferDrops(t *testing.T) {
	metrics.Init()
	before := testutil.ToFloat64(metrics.BookingEventsDropped.WithLabelValues(DropReasonBufferFull))

	target := &recordingPublisher{}
	d := NewEventDispatcher(&EventDispatcherConfig{BufferSize: 2, Retry: fastRetry(0)}, target, nil)

	// not started: nothing consumes the buffer
	for seat := 1; seat <= 3; seat++ {
		require.NoError(t, d.PublishBookingCreated(context.Background(), newBooking(t, seat)))
	}
	assert.Equal(t, 2, d.Pending())
	assert.EqualValues(t, 1, d.Dropped())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.BookingEventsDropped.WithLabelValues(DropReasonBufferFull)))

	d.Start(context.Background())
	d.Stop()

	_, published := target.snapshot()
	assert.Len(t, published, 2)
	assert.Equal(t, 0, d.Pending())
}

func TestEventDispatcher_StoppedDropsNewEvents(t *testing.T) {
	target := &recordingPublisher{}
	d := NewEventDispatcher(nil, target, nil)
	d.Start(context.Background())
	d.Stop()

	require.NoError(t, d.PublishBookingCreated(context.Background(), newBooking(t, 1)))
	assert.EqualValues(t, 1, d.Dropped())

	calls, _ := target.snapshot()
	assert.Equal(t, 0, calls)
}

func TestEventDispatcher_ContextCancelDrains(t *testing.T) {
	target := &recordingPublisher{}
	d := NewEventDispatcher(&EventDispatcherConfig{BufferSize: 8, Retry: fastRetry(0)}, target, nil)

	for seat := 1; seat <= 4; seat++ {
		require.NoError(t, d.PublishBookingCreated(context.Background(), newBooking(t, seat)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Stop()

	_, published := target.snapshot()
	assert.Len(t, published, 4)
}

func TestEventDispatcher_Close(t *testing.T) {
	target := &recordingPublisher{}
	d := NewEventDispatcher(nil, target, nil)
	d.Start(context.Background())

	require.NoError(t, d.Close())
	assert.True(t, target.closed)

	// second stop is a no-op
	d.Stop()
}

func TestEventDispatcher_RejectsNilBooking(t *testing.T) {
	d := NewEventDispatcher(nil, nil, nil)
	assert.Error(t, d.PublishBookingCreated(context.Background(), nil))
}
