package fleet

import (
	"context"
	"testing"
	"time"

	"fitops/internal/model"
	"fitops/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProber maps service names to canned statuses, with an optional
// per-probe delay to exercise the concurrency contract
type fakeProber struct {
	statuses map[string]string
	delay    time.Duration
}

func (p *fakeProber) Probe(ctx context.Context, serviceName, baseURL string) model.ServiceHealth {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
		}
	}
	status, ok := p.statuses[serviceName]
	if !ok {
		status = model.StatusHealthy
	}
	return model.ServiceHealth{
		ServiceName: serviceName,
		Status:      status,
		CheckedAt:   time.Now(),
	}
}

func registryOf(names ...string) []config.ServiceEntry {
	entries := make([]config.ServiceEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, config.ServiceEntry{Name: name, URL: "http://" + name})
	}
	return entries
}

func TestCheckFleet_AllHealthy(t *testing.T) {
	monitor := NewMonitor(&fakeProber{statuses: map[string]string{}})
	registry := registryOf("fitneaseauth", "fitneasecontent", "fitneasetracking")

	snapshot := monitor.CheckFleet(context.Background(), registry)

	assert.Equal(t, model.FleetHealthy, snapshot.OverallStatus)
	assert.Empty(t, snapshot.UnhealthyServices)
	assert.Len(t, snapshot.Services, 3)
	assert.False(t, snapshot.ComputedAt.IsZero())
}

func TestCheckFleet_DegradedThresholds(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]string
		overall  string
		down     []string
	}{
		{
			name:     "one unhealthy is degraded",
			statuses: map[string]string{"fitneaseml": model.StatusUnhealthy},
			overall:  model.FleetDegraded,
			down:     []string{"fitneaseml"},
		},
		{
			name: "two down is still degraded",
			statuses: map[string]string{
				"fitneaseml":     model.StatusUnhealthy,
				"fitneasesocial": model.StatusUnconfigured,
			},
			overall: model.FleetDegraded,
			down:    []string{"fitneasesocial", "fitneaseml"},
		},
		{
			name: "three down is unhealthy",
			statuses: map[string]string{
				"fitneaseml":     model.StatusUnhealthy,
				"fitneasesocial": model.StatusUnhealthy,
				"fitneasecomms":  model.StatusUnconfigured,
			},
			overall: model.FleetUnhealthy,
			down:    []string{"fitneasesocial", "fitneaseml", "fitneasecomms"},
		},
	}

	registry := registryOf(
		"fitneaseauth", "fitneasecontent", "fitneasetracking",
		"fitneasesocial", "fitneaseml", "fitneasecomms",
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monitor := NewMonitor(&fakeProber{statuses: tt.statuses})
			snapshot := monitor.CheckFleet(context.Background(), registry)

			assert.Equal(t, tt.overall, snapshot.OverallStatus)
			// unhealthy names come back in registry order
			assert.Equal(t, tt.down, snapshot.UnhealthyServices)
		})
	}
}

func TestCheckFleet_UnconfiguredCountsAgainstFleet(t *testing.T) {
	// Three of five missing URLs means unhealthy even when every reachable
	// service answers
	monitor := NewMonitor(&fakeProber{statuses: map[string]string{
		"fitneasesocial": model.StatusUnconfigured,
		"fitneasecomms":  model.StatusUnconfigured,
		"fitneasemedia":  model.StatusUnconfigured,
	}})
	registry := registryOf("fitneaseauth", "fitneasetracking", "fitneasesocial", "fitneasecomms", "fitneasemedia")

	snapshot := monitor.CheckFleet(context.Background(), registry)

	assert.Equal(t, model.FleetUnhealthy, snapshot.OverallStatus)
	assert.Len(t, snapshot.UnhealthyServices, 3)
}

func TestCheckFleet_ProbesRunConcurrently(t *testing.T) {
	// Ten probes of 100ms each must take about 100ms, not a second
	monitor := NewMonitor(&fakeProber{delay: 100 * time.Millisecond})
	registry := registryOf(
		"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9",
	)

	start := time.Now()
	snapshot := monitor.CheckFleet(context.Background(), registry)
	elapsed := time.Since(start)

	require.Len(t, snapshot.Services, 10)
	assert.Less(t, elapsed, 500*time.Millisecond, "probes must fan out, not run sequentially")
}

func TestCheckOne(t *testing.T) {
	monitor := NewMonitor(&fakeProber{statuses: map[string]string{
		"fitneaseml": model.StatusUnhealthy,
	}})

	health := monitor.CheckOne(context.Background(), "fitneaseml", "http://fitneaseml")
	assert.Equal(t, model.StatusUnhealthy, health.Status)
	assert.Equal(t, "fitneaseml", health.ServiceName)
}

func TestOverallFromUnavailable(t *testing.T) {
	assert.Equal(t, model.FleetHealthy, model.OverallFromUnavailable(0))
	assert.Equal(t, model.FleetDegraded, model.OverallFromUnavailable(1))
	assert.Equal(t, model.FleetDegraded, model.OverallFromUnavailable(2))
	assert.Equal(t, model.FleetUnhealthy, model.OverallFromUnavailable(3))
	assert.Equal(t, model.FleetUnhealthy, model.OverallFromUnavailable(9))
}
