package fleet

import (
	"context"
	"sync"
	"time"

	"fitops/internal/model"
	"fitops/pkg/config"
)

// ServiceProber is the single-service probe capability the monitor fans out
type ServiceProber interface {
	Probe(ctx context.Context, serviceName, baseURL string) model.ServiceHealth
}

// Monitor orchestrates concurrent probes over the service registry and
// merges the outcomes into one fleet verdict.
type Monitor struct {
	prober ServiceProber
}

// NewMonitor creates a fleet monitor over a prober
func NewMonitor(prober ServiceProber) *Monitor {
	return &Monitor{prober: prober}
}

// CheckFleet probes every registry entry concurrently. Each probe runs in
// its own goroutine bounded by its own timeout; one slow service delays the
// sweep by at most its own timeout, never the sum. Results land in
// pre-indexed slots, so probes share no mutable state.
func (m *Monitor) CheckFleet(ctx context.Context, registry []config.ServiceEntry) *model.FleetHealthSnapshot {
	results := make([]model.ServiceHealth, len(registry))

	var wg sync.WaitGroup
	for i, entry := range registry {
		wg.Add(1)
		go func(slot int, entry config.ServiceEntry) {
			defer wg.Done()
			results[slot] = m.prober.Probe(ctx, entry.Name, entry.URL)
		}(i, entry)
	}
	wg.Wait()

	services := make(map[string]model.ServiceHealth, len(registry))
	unhealthy := make([]string, 0)
	for _, health := range results {
		services[health.ServiceName] = health
		if health.Unavailable() {
			unhealthy = append(unhealthy, health.ServiceName)
		}
	}

	return &model.FleetHealthSnapshot{
		Services:          services,
		OverallStatus:     model.OverallFromUnavailable(len(unhealthy)),
		UnhealthyServices: unhealthy,
		ComputedAt:        time.Now(),
	}
}

// CheckOne probes a single service without fleet aggregation
func (m *Monitor) CheckOne(ctx context.Context, serviceName, baseURL string) model.ServiceHealth {
	return m.prober.Probe(ctx, serviceName, baseURL)
}
