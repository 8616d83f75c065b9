package service

import (
	"context"
	"errors"
	"time"

	"fitops/internal/model"
	"fitops/pkg/config"
	"fitops/pkg/fleet"
	"fitops/pkg/logger"
	redisstore "fitops/pkg/store/redis"
)

// ErrUnknownService marks a service name outside the registry
var ErrUnknownService = errors.New("service not found")

const modelHealthPath = "/api/v1/model-health"

// HealthService orchestrates fleet health sweeps, single-service checks and
// the dedicated ML model health probe
type HealthService struct {
	monitor      *fleet.Monitor
	prober       *fleet.Prober
	cache        *redisstore.HealthCache
	registry     []config.ServiceEntry
	modelTimeout time.Duration
}

// NewHealthService creates a health service. cache may be nil to disable
// snapshot caching.
func NewHealthService(monitor *fleet.Monitor, prober *fleet.Prober, cache *redisstore.HealthCache, registry []config.ServiceEntry, modelTimeout time.Duration) *HealthService {
	if modelTimeout <= 0 {
		modelTimeout = fleet.DefaultModelProbeTimeout
	}
	return &HealthService{
		monitor:      monitor,
		prober:       prober,
		cache:        cache,
		registry:     registry,
		modelTimeout: modelTimeout,
	}
}

// CheckFleet sweeps the whole registry. When useCache is set, a fresh
// cached snapshot short-circuits the sweep; cache failures degrade to a
// live sweep, never to an error.
func (s *HealthService) CheckFleet(ctx context.Context, useCache bool) *model.FleetHealthSnapshot {
	if useCache && s.cache != nil {
		cached, err := s.cache.Load(ctx)
		if err != nil {
			logger.WarnCtx(ctx, "failed to load cached fleet snapshot: %v", err)
		} else if cached != nil {
			return cached
		}
	}

	snapshot := s.monitor.CheckFleet(ctx, s.registry)

	logger.InfoCtx(ctx, "fleet health check completed: overall=%s total=%d unhealthy=%d",
		snapshot.OverallStatus, len(snapshot.Services), len(snapshot.UnhealthyServices))

	if s.cache != nil {
		if err := s.cache.Store(ctx, snapshot); err != nil {
			logger.WarnCtx(ctx, "failed to cache fleet snapshot: %v", err)
		}
	}
	return snapshot
}

// CheckService probes one registered service. Returns ErrUnknownService for
// names outside the registry; an unconfigured URL is a valid probe outcome.
func (s *HealthService) CheckService(ctx context.Context, serviceName string) (model.ServiceHealth, error) {
	for _, entry := range s.registry {
		if entry.Name == serviceName {
			return s.monitor.CheckOne(ctx, entry.Name, entry.URL), nil
		}
	}
	return model.ServiceHealth{}, ErrUnknownService
}

// Field groups reported by the ML service's model-health endpoint
var (
	modelMetricFields  = []string{"content_based_accuracy", "collaborative_accuracy", "random_forest_accuracy", "last_training", "recommendation_count_24h"}
	systemMetricFields = []string{"cpu_usage", "memory_usage", "model_load_time"}
)

// ModelHealth probes the ML service's model-health endpoint with the longer
// model probe timeout and regroups the reported payload into model and
// system metric sections
func (s *HealthService) ModelHealth(ctx context.Context) *model.MLModelHealth {
	url := ""
	for _, entry := range s.registry {
		if entry.Name == "fitneaseml" {
			url = entry.URL
			break
		}
	}
	probe := s.prober.ProbePath(ctx, "fitneaseml", url, modelHealthPath, s.modelTimeout)

	return &model.MLModelHealth{
		Service:        "fitneaseml",
		Status:         probe.Status,
		ResponseTimeMs: probe.ResponseTimeMs,
		ModelMetrics:   pickMetrics(probe.ServiceData, modelMetricFields),
		SystemMetrics:  pickMetrics(probe.ServiceData, systemMetricFields),
		Error:          probe.Error,
		CheckedAt:      probe.CheckedAt,
	}
}

// pickMetrics copies the named fields, keeping absent ones as explicit nulls
func pickMetrics(data map[string]interface{}, fields []string) map[string]interface{} {
	metrics := make(map[string]interface{}, len(fields))
	for _, field := range fields {
		metrics[field] = data[field]
	}
	return metrics
}

// Registry exposes the configured fleet registry
func (s *HealthService) Registry() []config.ServiceEntry {
	return s.registry
}
