package server

import (
	"time"

	"github.com/enigmAsad/ticketing-service/internal/di"
	"github.com/enigmAsad/ticketing-service/internal/metrics"
	"github.com/enigmAsad/ticketing-service/pkg/logger"
	"github.com/enigmAsad/ticketing-service/pkg/middleware"
	"github.com/enigmAsad/ticketing-service/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// RouterConfig contains everything the HTTP surface needs
type RouterConfig struct {
	Container *di.Container
	// RateLimiter guards the API routes; nil disables rate limiting
	RateLimiter middleware.RateLimiter
	// IdempotencyStore enables X-Idempotency-Key on booking creation when set
	IdempotencyStore middleware.IdempotencyStore
	IdempotencyTTL   time.Duration
	MaxBodyBytes     int64
	CORS             *middleware.CORSConfig
	Logger           *logger.Logger
}

var probePaths = []string{"/health", "/ready", "/metrics"}

// NewRouter builds the gin engine with middleware and routes
func NewRouter(cfg *RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	corsCfg := middleware.DefaultCORSConfig()
	if cfg.CORS != nil {
		corsCfg = *cfg.CORS
	}

	// Request bodies with fields the API does not define are rejected.
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(log, probePaths...),
		middleware.CORSWithConfig(corsCfg),
		telemetry.TracingMiddleware(probePaths...),
		middleware.BodyLimit(cfg.MaxBodyBytes),
	)

	c := cfg.Container

	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	if cfg.RateLimiter != nil {
		v1.Use(middleware.RateLimit(cfg.RateLimiter, log))
	}
	{
		events := v1.Group("/events")
		{
			events.POST("", c.EventHandler.Create)
			events.GET("", c.EventHandler.List)
			events.GET("/:id", c.EventHandler.GetByID)
			events.GET("/:id/seats", c.EventHandler.GetSeats)
			events.GET("/:id/bookings", c.EventHandler.ListBookings)
		}

		createBooking := []gin.HandlerFunc{c.BookingHandler.Create}
		if cfg.IdempotencyStore != nil {
			createBooking = append([]gin.HandlerFunc{middleware.Idempotency(middleware.IdempotencyConfig{
				Store:  cfg.IdempotencyStore,
				TTL:    cfg.IdempotencyTTL,
				Logger: log,
			})}, createBooking...)
		}

		bookings := v1.Group("/bookings")
		{
			bookings.POST("", createBooking...)
			bookings.GET("/:id", c.BookingHandler.GetByID)
		}
	}

	return router
}
