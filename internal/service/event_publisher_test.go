package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/pkg/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Produce(ctx context.Context, msg *kafka.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockProducer) Close() {
	m.Called()
}

func TestKafkaEventPublisher_PublishBookingCreated(t *testing.T) {
	producer := &mockProducer{}
	publisher := NewKafkaEventPublisherWithProducer(producer, "", "")
	fixed := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	publisher.now = func() time.Time { return fixed }

	booking, err := domain.NewBooking("event-42", []int{4, 5}, domain.BookingStatusConfirmed, fixed)
	require.NoError(t, err)

	var sent *kafka.Message
	producer.On("Produce", mock.Anything, mock.AnythingOfType("*kafka.Message")).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*kafka.Message) }).
		Return(nil).Once()

	require.NoError(t, publisher.PublishBookingCreated(context.Background(), booking))
	producer.AssertExpectations(t)

	require.NotNil(t, sent)
	assert.Equal(t, "booking-events", sent.Topic)
	assert.Equal(t, []byte("event-42"), sent.Key)
	assert.Equal(t, fixed, sent.Timestamp)
	assert.Equal(t, "booking.created", sent.Headers["event_type"])
	assert.Equal(t, "ticketing-service", sent.Headers["source"])

	var event domain.BookingEvent
	require.NoError(t, json.Unmarshal(sent.Value, &event))
	assert.Equal(t, booking.ID, event.BookingID)
	assert.Equal(t, []int{4, 5}, event.Seats)
	assert.Equal(t, sent.Headers["event_id"], event.ID)
}

func TestKafkaEventPublisher_ProduceError(t *testing.T) {
	producer := &mockProducer{}
	publisher := NewKafkaEventPublisherWithProducer(producer, "custom-topic", "svc")
	booking, _ := domain.NewBooking("e", []int{1}, domain.BookingStatusConfirmed, time.Now())

	producer.On("Produce", mock.Anything, mock.Anything).Return(errors.New("leader not available"))

	err := publisher.PublishBookingCreated(context.Background(), booking)
	assert.ErrorContains(t, err, "leader not available")
}

func TestKafkaEventPublisher_Close(t *testing.T) {
	producer := &mockProducer{}
	producer.On("Close").Return().Once()

	publisher := NewKafkaEventPublisherWithProducer(producer, "t", "s")
	assert.NoError(t, publisher.Close())
	producer.AssertExpectations(t)
}

func TestNewKafkaEventPublisher_RequiresConfig(t *testing.T) {
	_, err := NewKafkaEventPublisher(context.Background(), nil)
	assert.Error(t, err)

	_, err = NewKafkaEventPublisher(context.Background(), &EventPublisherConfig{})
	assert.Error(t, err)
}

func TestNoOpEventPublisher(t *testing.T) {
	p := NewNoOpEventPublisher()
	assert.NoError(t, p.PublishBookingCreated(context.Background(), &domain.Booking{}))
	assert.NoError(t, p.Close())
}
