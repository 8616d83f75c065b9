package serviceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"
)

const userAgent = "FitnEase-Operations-Service"

// Result is one completed exchange with a peer service. Data is the decoded
// JSON body, kept opaque.
type Result struct {
	Data           map[string]interface{}
	StatusCode     int
	ResponseTimeMs float64
}

// RequestLogger records outbound calls as API log rows. Optional; a nil
// logger disables call logging.
type RequestLogger interface {
	LogOutbound(ctx context.Context, endpoint, method string, request, response map[string]interface{}, statusCode int, responseTimeMs float64, serviceTo string)
}

// Client is a capability handle onto one peer service: configured by base
// URL, no per-service subclassing.
type Client struct {
	serviceName string
	baseURL     string
	httpClient  *http.Client
	logs        RequestLogger
}

// New creates a peer service client
func New(serviceName, baseURL string, timeout time.Duration, logs RequestLogger) *Client {
	return &Client{
		serviceName: serviceName,
		baseURL:     baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logs: logs,
	}
}

// ServiceName returns the logical name of the peer
func (c *Client) ServiceName() string {
	return c.serviceName
}

// Configured reports whether the peer has a base URL
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Get issues a GET with optional query params and decodes the JSON response
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Result, error) {
	target := path
	if len(params) > 0 {
		target = path + "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, target, nil)
}

// Post issues a POST with a JSON body and decodes the JSON response
func (c *Client) Post(ctx context.Context, path string, body map[string]interface{}) (*Result, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// GetAuthorized issues a GET forwarding the caller's bearer token
func (c *Client) GetAuthorized(ctx context.Context, path, bearer string) (*Result, error) {
	return c.doWithAuth(ctx, http.MethodGet, path, nil, bearer)
}

func (c *Client) do(ctx context.Context, method, path string, body map[string]interface{}) (*Result, error) {
	return c.doWithAuth(ctx, method, path, body, "")
}

func (c *Client) doWithAuth(ctx context.Context, method, path string, body map[string]interface{}, bearer string) (*Result, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("service %s: base URL not configured", c.serviceName)
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := elapsedMs(start)
	if err != nil {
		c.log(ctx, path, method, body, map[string]interface{}{"error": err.Error()}, http.StatusInternalServerError, elapsed)
		return nil, fmt.Errorf("service %s: %w", c.serviceName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("service %s: failed to read response: %w", c.serviceName, err)
	}

	data := map[string]interface{}{}
	if len(raw) > 0 {
		// Non-JSON bodies are tolerated; the call still carries its status
		_ = json.Unmarshal(raw, &data)
	}

	result := &Result{
		Data:           data,
		StatusCode:     resp.StatusCode,
		ResponseTimeMs: elapsed,
	}

	c.log(ctx, path, method, body, data, resp.StatusCode, elapsed)

	if resp.StatusCode >= 400 {
		return result, fmt.Errorf("service %s: unexpected status %d", c.serviceName, resp.StatusCode)
	}
	return result, nil
}

func (c *Client) log(ctx context.Context, endpoint, method string, request, response map[string]interface{}, statusCode int, responseTimeMs float64) {
	if c.logs == nil {
		return
	}
	c.logs.LogOutbound(ctx, endpoint, method, request, response, statusCode, responseTimeMs, c.serviceName)
}

func elapsedMs(start time.Time) float64 {
	return math.Round(float64(time.Since(start).Microseconds())/1000*100) / 100
}
