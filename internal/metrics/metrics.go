package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reservation outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// Registry holds every ticketing metric plus Go runtime collectors
	Registry *prometheus.Registry

	// Booking counters
	ReservationsTotal *prometheus.CounterVec
	SeatsReserved     prometheus.Counter
	EventsCreated     prometheus.Counter

	// Histograms
	ReservationDuration *prometheus.HistogramVec

	// Per-event gauges, refreshed by the occupancy reporter
	EventSeatsOccupied  *prometheus.GaugeVec
	EventSeatsAvailable *prometheus.GaugeVec

	// Booking event dispatch
	BookingEventsPublished *prometheus.CounterVec
	BookingEventsDropped   *prometheus.CounterVec

	// HTTP guards
	RateLimitedTotal prometheus.Counter

	initOnce sync.Once
)

// Init registers all metrics. Safe to call more than once.
func Init() {
	initOnce.Do(initMetrics)
}

func initMetrics() {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(Registry)

	ReservationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketing_reservations_total",
		Help: "Reservation attempts by outcome",
	}, []string{"outcome"})

	SeatsReserved = factory.NewCounter(prometheus.CounterOpts{
		Name: "ticketing_seats_reserved_total",
		Help: "Seats claimed by successful reservations",
	})

	EventsCreated = factory.NewCounter(prometheus.CounterOpts{
		Name: "ticketing_events_created_total",
		Help: "Events created",
	})

	ReservationDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ticketing_reservation_duration_seconds",
		Help:    "Time spent creating a booking, validation included",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1},
	}, []string{"outcome"})

	EventSeatsOccupied = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ticketing_event_seats_occupied",
		Help: "Occupied seats per event",
	}, []string{"event_id"})

	EventSeatsAvailable = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ticketing_event_seats_available",
		Help: "Available seats per event",
	}, []string{"event_id"})

	BookingEventsPublished = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketing_booking_events_published_total",
		Help: "Booking events handed to the broker",
	}, []string{"type"})

	BookingEventsDropped = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketing_booking_events_dropped_total",
		Help: "Booking events dropped by reason",
	}, []string{"reason"})

	RateLimitedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "ticketing_rate_limited_requests_total",
		Help: "Requests rejected with 429",
	})
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	Init()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// RecordReservation records one booking attempt
func RecordReservation(outcome string, seats int, d time.Duration) {
	if ReservationsTotal == nil {
		return
	}
	ReservationsTotal.WithLabelValues(outcome).Inc()
	ReservationDuration.WithLabelValues(outcome).Observe(d.Seconds())
	if outcome == OutcomeSuccess {
		SeatsReserved.Add(float64(seats))
	}
}

// RecordEventCreated records an event creation
func RecordEventCreated() {
	if EventsCreated != nil {
		EventsCreated.Inc()
	}
}

// SetEventOccupancy sets the per-event seat gauges
func SetEventOccupancy(eventID string, occupied, available int) {
	if EventSeatsOccupied == nil {
		return
	}
	EventSeatsOccupied.WithLabelValues(eventID).Set(float64(occupied))
	EventSeatsAvailable.WithLabelValues(eventID).Set(float64(available))
}

// RecordBookingEventPublished records a delivered booking event
func RecordBookingEventPublished(eventType string) {
	if BookingEventsPublished != nil {
		BookingEventsPublished.WithLabelValues(eventType).Inc()
	}
}

// RecordBookingEventDropped records a booking event that was not delivered
func RecordBookingEventDropped(reason string) {
	if BookingEventsDropped != nil {
		BookingEventsDropped.WithLabelValues(reason).Inc()
	}
}

// RecordRateLimited records a rejected request
func RecordRateLimited() {
	if RateLimitedTotal != nil {
		RateLimitedTotal.Inc()
	}
}
