// Package jobs runs the periodic maintenance tasks: expiring unpaid orders
// and warming the air-quality cache for the default location.
package jobs

import (
	"context"
	"fmt"
	"time"

	"climate-hub/airquality"
	"climate-hub/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 30 * time.Second

// ExpireOrders marks pending orders older than maxAge as expired.
func ExpireOrders(ctx context.Context, orders services.OrderStore, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	n, err := orders.ExpirePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire orders: %w", err)
	}
	return n, nil
}

// RefreshAirQuality re-fetches the default location so visitors hit a warm cache.
func RefreshAirQuality(ctx context.Context, svc *airquality.Service) airquality.Reading {
	return svc.Refresh(ctx, airquality.DefaultLatitude, airquality.DefaultLongitude)
}

// Config holds the schedules in cron syntax (descriptors like "@every 10m" work).
type Config struct {
	OrderExpirySchedule       string
	OrderExpiry               time.Duration
	AirQualityRefreshSchedule string
}

// Scheduler wraps a cron runner. Either dependency may be nil to skip its job.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(cfg Config, orders services.OrderStore, aq *airquality.Service) (*Scheduler, error) {
	c := cron.New()

	if orders != nil && cfg.OrderExpirySchedule != "" {
		_, err := c.AddFunc(cfg.OrderExpirySchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			n, err := ExpireOrders(ctx, orders, cfg.OrderExpiry)
			if err != nil {
				zap.L().Error("order expiry job failed", zap.Error(err))
				return
			}
			if n > 0 {
				zap.L().Info("expired pending orders", zap.Int64("count", n))
			}
		})
		if err != nil {
			return nil, fmt.Errorf("schedule order expiry %q: %w", cfg.OrderExpirySchedule, err)
		}
	}

	if aq != nil && cfg.AirQualityRefreshSchedule != "" {
		_, err := c.AddFunc(cfg.AirQualityRefreshSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			r := RefreshAirQuality(ctx, aq)
			zap.L().Debug("air quality refreshed", zap.Int("aqi", r.AQI), zap.Bool("fallback", r.Fallback))
		})
		if err != nil {
			return nil, fmt.Errorf("schedule air quality refresh %q: %w", cfg.AirQualityRefreshSchedule, err)
		}
	}

	return &Scheduler{cron: c}, nil
}

// Len is the number of scheduled jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
	zap.L().Info("scheduler started", zap.Int("jobs", s.Len()))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
