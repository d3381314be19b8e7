package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/enigmAsad/ticketing-service/internal/di"
	"github.com/enigmAsad/ticketing-service/internal/metrics"
	"github.com/enigmAsad/ticketing-service/internal/server"
	"github.com/enigmAsad/ticketing-service/internal/service"
	"github.com/enigmAsad/ticketing-service/internal/worker"
	"github.com/enigmAsad/ticketing-service/pkg/config"
	"github.com/enigmAsad/ticketing-service/pkg/logger"
	"github.com/enigmAsad/ticketing-service/pkg/middleware"
	pkgredis "github.com/enigmAsad/ticketing-service/pkg/redis"
	"github.com/enigmAsad/ticketing-service/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(&logger.Config{
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting ticketing service...", zap.String("version", cfg.App.Version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	metrics.Init()

	// Redis backs the shared rate limiter and idempotency records
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(ctx, &pkgredis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: 500 * time.Millisecond,
		})
		if err != nil {
			appLog.Fatal("Redis connection failed", zap.Error(err))
		}
		appLog.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// A broker outage degrades to a no-op publisher rather than blocking startup
	var eventPublisher service.EventPublisher
	if cfg.Kafka.Enabled {
		eventPublisher, err = service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.BookingTopic,
			ServiceName: cfg.App.Name,
			ClientID:    cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn("Kafka connection failed, using no-op publisher", zap.Error(err))
			eventPublisher = nil
		} else {
			appLog.Info("Kafka event publisher connected", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	}

	container := di.NewContainer(&di.ContainerConfig{
		Redis:              redisClient,
		EventPublisher:     eventPublisher,
		EventServiceConfig: &service.EventServiceConfig{MaxEventSeats: cfg.Booking.MaxEventSeats},
		DispatcherConfig: &worker.EventDispatcherConfig{
			BufferSize: cfg.Worker.DispatchBuffer,
		},
		ReporterConfig: &worker.OccupancyReporterConfig{Interval: cfg.Worker.OccupancyInterval},
		Logger:         appLog,
	})

	routerCfg := &server.RouterConfig{
		Container:      container,
		IdempotencyTTL: cfg.Booking.IdempotencyTTL,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Logger:         appLog,
	}
	if cfg.RateLimit.Enabled {
		if redisClient != nil {
			routerCfg.RateLimiter = middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())
		} else {
			routerCfg.RateLimiter = middleware.NewSlidingWindowLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())
		}
	}
	if redisClient != nil {
		routerCfg.IdempotencyStore = redisClient.Client()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	container.Start(workerCtx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLog.Info("Ticketing service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLog.Error("Server stopped with error", zap.Error(err))
	}

	// In-flight requests are done; flush booking events before closing clients.
	stopWorkers()
	if err := container.Close(); err != nil {
		appLog.Warn("Failed to close event publisher", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			appLog.Warn("Failed to close redis", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		appLog.Warn("Failed to flush traces", zap.Error(err))
	}

	appLog.Info("Server exited gracefully")
}
