package airquality

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Cache is the subset of cache.JSONCache the service needs.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Service serves readings, caching upstream answers per coordinate.
type Service struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
}

// NewService wraps fetcher. A nil cache disables caching.
func NewService(fetcher Fetcher, cache Cache, ttl time.Duration) *Service {
	return &Service{fetcher: fetcher, cache: cache, ttl: ttl}
}

// CacheKey rounds to two decimals (about 1 km), close enough for one city district.
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f:%.2f", lat, lon)
}

// Current returns a cached reading when one exists, otherwise fetches a fresh one.
func (s *Service) Current(ctx context.Context, lat, lon float64) Reading {
	if s.cache != nil {
		var cached Reading
		hit, err := s.cache.Get(ctx, CacheKey(lat, lon), &cached)
		if err != nil {
			zap.L().Warn("air quality cache read failed", zap.Error(err))
		}
		if hit {
			return cached
		}
	}
	return s.Refresh(ctx, lat, lon)
}

// Refresh always asks the upstream and stores non-fallback readings.
func (s *Service) Refresh(ctx context.Context, lat, lon float64) Reading {
	reading := s.fetcher.Fetch(ctx, lat, lon)
	if reading.Fallback {
		zap.L().Warn("air quality upstream failed, serving fallback",
			zap.Float64("lat", lat), zap.Float64("lon", lon), zap.String("error", reading.Error))
		return reading
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, CacheKey(lat, lon), reading, s.ttl); err != nil {
			zap.L().Warn("air quality cache write failed", zap.Error(err))
		}
	}
	return reading
}
