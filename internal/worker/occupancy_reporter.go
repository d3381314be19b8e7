package worker

import (
	"context"
	"time"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/internal/metrics"
	"github.com/enigmAsad/ticketing-service/internal/service"
	"github.com/enigmAsad/ticketing-service/pkg/logger"
	"go.uber.org/zap"
)

// OccupancyReporterConfig holds configuration for the occupancy reporter
type OccupancyReporterConfig struct {
	// Interval is the time between gauge refreshes (default: 15 seconds)
	Interval time.Duration
}

// OccupancyReporter periodically publishes per-event seat gauges
type OccupancyReporter struct {
	config       *OccupancyReporterConfig
	events       service.EventService
	availability service.AvailabilityService
	log          *logger.Logger
}

// NewOccupancyReporter creates a new occupancy reporter
func NewOccupancyReporter(
	cfg *OccupancyReporterConfig,
	events service.EventService,
	availability service.AvailabilityService,
	log *logger.Logger,
) *OccupancyReporter {
	if cfg == nil {
		cfg = &OccupancyReporterConfig{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &OccupancyReporter{
		config:       cfg,
		events:       events,
		availability: availability,
		log:          log.With(zap.String("worker", "occupancy_reporter")),
	}
}

// Start refreshes the gauges on every tick until ctx is done
func (r *OccupancyReporter) Start(ctx context.Context) {
	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	r.log.Info("Occupancy reporter started", zap.Duration("interval", r.config.Interval))

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Occupancy reporter stopping")
			return
		case <-ticker.C:
			r.Report(ctx)
		}
	}
}

// Report refreshes the gauges once and returns how many events were reported
func (r *OccupancyReporter) Report(ctx context.Context) int {
	events, err := r.events.ListEvents(ctx)
	if err != nil {
		r.log.Error("Failed to list events", zap.Error(err))
		return 0
	}

	reported := 0
	for _, event := range events {
		if ctx.Err() != nil {
			return reported
		}

		counts, err := r.availability.Query(ctx, event.ID, domain.AvailabilityModeCount, 0, 0)
		if err != nil {
			r.log.Error("Failed to read occupancy",
				zap.String("event_id", event.ID),
				zap.Error(err))
			continue
		}

		metrics.SetEventOccupancy(event.ID, counts.OccupiedCount, counts.AvailableCount)
		reported++
	}

	r.log.Debug("Occupancy gauges refreshed", zap.Int("events", reported))
	return reported
}
