package di

import (
	"context"

	"github.com/enigmAsad/ticketing-service/internal/handler"
	"github.com/enigmAsad/ticketing-service/internal/repository"
	"github.com/enigmAsad/ticketing-service/internal/service"
	"github.com/enigmAsad/ticketing-service/internal/worker"
	"github.com/enigmAsad/ticketing-service/pkg/logger"
	pkgredis "github.com/enigmAsad/ticketing-service/pkg/redis"
)

// Container holds all dependencies for the ticketing service
type Container struct {
	// Infrastructure
	Redis *pkgredis.Client

	// Repositories
	EventRepo       repository.EventRepository
	BookingRepo     repository.BookingRepository
	ReservationRepo repository.ReservationRepository

	// Publishers
	EventPublisher  service.EventPublisher
	EventDispatcher *worker.EventDispatcher

	// Services
	EventService        service.EventService
	BookingService      service.BookingService
	AvailabilityService service.AvailabilityService

	// Workers
	OccupancyReporter *worker.OccupancyReporter

	// Handlers
	HealthHandler  *handler.HealthHandler
	EventHandler   *handler.EventHandler
	BookingHandler *handler.BookingHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	// Redis is optional; nil disables readiness checks against it
	Redis *pkgredis.Client
	// EventPublisher is the broker-facing publisher; nil means no-op
	EventPublisher service.EventPublisher

	EventServiceConfig *service.EventServiceConfig
	DispatcherConfig   *worker.EventDispatcherConfig
	ReporterConfig     *worker.OccupancyReporterConfig

	Logger *logger.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	if cfg == nil {
		cfg = &ContainerConfig{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}

	c := &Container{
		Redis:          cfg.Redis,
		EventPublisher: cfg.EventPublisher,
	}
	if c.EventPublisher == nil {
		c.EventPublisher = service.NewNoOpEventPublisher()
	}

	// The booking store also owns the per-event seat shards
	bookings := repository.NewMemoryBookingRepository()
	c.EventRepo = repository.NewMemoryEventRepository()
	c.BookingRepo = bookings
	c.ReservationRepo = bookings

	c.EventDispatcher = worker.NewEventDispatcher(cfg.DispatcherConfig, c.EventPublisher, log)

	// Initialize services
	c.EventService = service.NewEventService(c.EventRepo, cfg.EventServiceConfig)
	c.AvailabilityService = service.NewAvailabilityService(c.EventRepo, c.ReservationRepo)
	c.BookingService = service.NewBookingService(
		c.EventRepo,
		c.BookingRepo,
		c.ReservationRepo,
		c.EventDispatcher,
	)

	c.OccupancyReporter = worker.NewOccupancyReporter(cfg.ReporterConfig, c.EventService, c.AvailabilityService, log)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.healthComponents())
	c.EventHandler = handler.NewEventHandler(c.EventService, c.AvailabilityService, c.BookingService)
	c.BookingHandler = handler.NewBookingHandler(c.BookingService)

	return c
}

// healthComponents maps optional dependencies to readiness probes.
// Absent ones are stored as untyped nil so they report "not configured".
func (c *Container) healthComponents() map[string]handler.Pinger {
	components := map[string]handler.Pinger{
		"redis": nil,
		"kafka": nil,
	}
	if c.Redis != nil {
		components["redis"] = c.Redis
	}
	if p, ok := c.EventPublisher.(handler.Pinger); ok {
		components["kafka"] = p
	}
	return components
}

// Start launches the background workers. They stop when ctx is cancelled.
func (c *Container) Start(ctx context.Context) {
	c.EventDispatcher.Start(ctx)
	go c.OccupancyReporter.Start(ctx)
}

// Close drains pending booking events and releases the publisher
func (c *Container) Close() error {
	return c.EventDispatcher.Close()
}
