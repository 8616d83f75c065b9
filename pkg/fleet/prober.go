package fleet

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"

	"fitops/internal/model"
)

const probeUserAgent = "FitnEase-Ops-Monitor"

// DefaultProbeTimeout bounds a routine liveness probe
const DefaultProbeTimeout = 5 * time.Second

// DefaultModelProbeTimeout bounds the heavier ML model-health probe
const DefaultModelProbeTimeout = 10 * time.Second

// Prober issues bounded-timeout liveness checks against single services.
// It never returns errors: every failure mode is captured in the returned
// ServiceHealth value.
type Prober struct {
	timeout time.Duration
	client  *http.Client
}

// NewProber creates a prober with the given per-probe timeout
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{
		timeout: timeout,
		// timeout is applied per probe via context so a custom deadline
		// can override it for the model-health variant
		client: &http.Client{},
	}
}

// Probe checks <baseURL>/health. An empty baseURL short-circuits to
// unconfigured without touching the network.
func (p *Prober) Probe(ctx context.Context, serviceName, baseURL string) model.ServiceHealth {
	return p.probePath(ctx, serviceName, baseURL, "/health", p.timeout)
}

// ProbePath checks an arbitrary liveness path with its own timeout
func (p *Prober) ProbePath(ctx context.Context, serviceName, baseURL, path string, timeout time.Duration) model.ServiceHealth {
	if timeout <= 0 {
		timeout = p.timeout
	}
	return p.probePath(ctx, serviceName, baseURL, path, timeout)
}

func (p *Prober) probePath(ctx context.Context, serviceName, baseURL, path string, timeout time.Duration) model.ServiceHealth {
	now := time.Now()
	if baseURL == "" {
		return model.ServiceHealth{
			ServiceName: serviceName,
			Status:      model.StatusUnconfigured,
			Error:       "Service URL not configured",
			CheckedAt:   now,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return unhealthy(serviceName, err.Error(), now)
	}
	req.Header.Set("User-Agent", probeUserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return unhealthy(serviceName, err.Error(), now)
	}
	defer resp.Body.Close()

	elapsed := math.Round(float64(time.Since(start).Microseconds())/1000*100) / 100

	// A reachable service answering with an error status is still a failed
	// probe; "the port is open" is not liveness.
	if resp.StatusCode >= 400 {
		h := unhealthy(serviceName, "unexpected status "+resp.Status, now)
		h.HTTPStatus = &resp.StatusCode
		return h
	}

	var payload map[string]interface{}
	if raw, readErr := io.ReadAll(resp.Body); readErr == nil && len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}

	status := resp.StatusCode
	return model.ServiceHealth{
		ServiceName:    serviceName,
		Status:         model.StatusHealthy,
		ResponseTimeMs: &elapsed,
		HTTPStatus:     &status,
		ServiceData:    payload,
		CheckedAt:      now,
	}
}

func unhealthy(serviceName, message string, at time.Time) model.ServiceHealth {
	return model.ServiceHealth{
		ServiceName: serviceName,
		Status:      model.StatusUnhealthy,
		Error:       message,
		CheckedAt:   at,
	}
}
