package apiclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/durableworks/agentkit/core/logger"
	"github.com/durableworks/agentkit/core/workflowctx"
)

// RequestFunc issues one HTTP request attempt. The passed context carries
// the per-attempt timeout and must be used for the request.
type RequestFunc func(ctx context.Context) (*http.Response, error)

// Client is a resilient outbound HTTP client: circuit breaker, bounded retry
// with exponential backoff, and a lightweight health probe. A process
// typically holds one long-lived instance per remote endpoint; breaker state
// is never shared across instances.
//
// Retries are suppressed inside a deterministic workflow scope (see
// workflowctx.WithDeterministicScope): the engine owns replay and retry
// semantics there, and client-side retries would double-retry.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger

	// Breaker state, guarded by one mutex.
	mu                  sync.Mutex
	consecutiveFailures int64
	lastFailureAt       time.Time
	totalRequests       int64
	totalFailures       int64
	probeInFlight       bool
}

// HealthStatus is a snapshot of the client's breaker counters.
type HealthStatus struct {
	TotalRequests       int64
	TotalFailures       int64
	ConsecutiveFailures int64
	LastFailureAt       time.Time
	CircuitOpen         bool
	SuccessRate         float64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to customize the
// transport or connection pooling.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithLogger sets the logger for internal operations.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client for the endpoint in cfg.BaseURL.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:  cfg.withDefaults(),
		http: &http.Client{},
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute runs fn with circuit breaking and retries. 5xx responses and
// transient transport errors are retried with exponential backoff; 4xx
// responses are returned as-is without retrying and do not trip the breaker
// (the endpoint is reachable). A non-nil response is only returned when its
// body is still readable; the caller owns closing it.
func (c *Client) Execute(ctx context.Context, fn RequestFunc) (*http.Response, error) {
	attempts := c.cfg.MaxRetries
	if workflowctx.IsDeterministic(ctx) {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		if err := c.allow(); err != nil {
			return nil, err
		}

		resp, err := c.attempt(ctx, fn)
		if err != nil {
			c.recordFailure()
			if ctx.Err() != nil {
				// Cancellation is not retryable.
				return nil, fmt.Errorf("%w: %w", ErrRequestFailed, ctx.Err())
			}
			lastErr = err
			c.log.Debug("request attempt failed",
				logger.Component("apiclient"),
				slog.Int("attempt", attempt),
				logger.Error(err))
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			c.recordFailure()
			lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
			drain(resp)
			c.log.Debug("request attempt failed",
				logger.Component("apiclient"),
				slog.Int("attempt", attempt),
				slog.Int("status", resp.StatusCode))
			continue
		}

		// 2xx-4xx: the endpoint responded, the breaker resets.
		c.recordSuccess()
		return resp, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrRequestFailed, lastErr)
}

// Do executes a prepared request through the breaker/retry machinery.
// The request must be retryable (nil or rewindable body).
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.Execute(ctx, func(ctx context.Context) (*http.Response, error) {
		return c.http.Do(req.WithContext(ctx))
	})
}

// Get issues a GET against path relative to the configured base URL.
func (c *Client) Get(ctx context.Context, path string, header http.Header) (*http.Response, error) {
	url, err := c.join(path)
	if err != nil {
		return nil, err
	}
	return c.Execute(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		return c.http.Do(req)
	})
}

// IsHealthy performs a lightweight existence check against the base
// endpoint with its own short timeout. It does not touch breaker counters.
func (c *Client) IsHealthy(ctx context.Context) bool {
	if c.cfg.BaseURL == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	drain(resp)
	return resp.StatusCode < http.StatusInternalServerError
}

// Healthcheck validates that the endpoint is reachable and the circuit is
// closed. Suitable for readiness probes.
func (c *Client) Healthcheck(ctx context.Context) error {
	if c.HealthStatus().CircuitOpen {
		return ErrCircuitOpen
	}
	if !c.IsHealthy(ctx) {
		return fmt.Errorf("%w: health probe failed", ErrRequestFailed)
	}
	return nil
}

// HealthStatus returns a snapshot of the breaker counters. Counters are
// monotonic for the life of the instance.
func (c *Client) HealthStatus() HealthStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	successRate := 1.0
	if c.totalRequests > 0 {
		successRate = 1.0 - float64(c.totalFailures)/float64(c.totalRequests)
	}

	return HealthStatus{
		TotalRequests:       c.totalRequests,
		TotalFailures:       c.totalFailures,
		ConsecutiveFailures: c.consecutiveFailures,
		LastFailureAt:       c.lastFailureAt,
		CircuitOpen:         c.circuitOpenLocked(time.Now()),
		SuccessRate:         successRate,
	}
}

// allow gates one attempt through the breaker. While the circuit is open it
// fails fast; once the open window has elapsed exactly one probe is let
// through until its outcome is recorded.
func (c *Client) allow() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if c.consecutiveFailures >= int64(c.cfg.MaxFailures) {
		if now.Sub(c.lastFailureAt) < c.cfg.CircuitTimeout || c.probeInFlight {
			return ErrCircuitOpen
		}
		c.probeInFlight = true
		c.log.Info("circuit open window elapsed, allowing probe",
			logger.Component("apiclient"))
	}
	return nil
}

func (c *Client) attempt(ctx context.Context, fn RequestFunc) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()
	return fn(ctx)
}

func (c *Client) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalRequests++
	c.probeInFlight = false
	if c.consecutiveFailures >= int64(c.cfg.MaxFailures) {
		c.log.Info("probe succeeded, circuit reset", logger.Component("apiclient"))
	}
	c.consecutiveFailures = 0
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalRequests++
	c.totalFailures++
	c.consecutiveFailures++
	c.lastFailureAt = time.Now()
	c.probeInFlight = false

	if c.consecutiveFailures == int64(c.cfg.MaxFailures) {
		c.log.Warn("circuit opened",
			logger.Component("apiclient"),
			slog.Int64("consecutive_failures", c.consecutiveFailures),
			logger.Duration(c.cfg.CircuitTimeout))
	}
}

func (c *Client) circuitOpenLocked(now time.Time) bool {
	return c.consecutiveFailures >= int64(c.cfg.MaxFailures) &&
		now.Sub(c.lastFailureAt) < c.cfg.CircuitTimeout
}

// backoff sleeps base * 2^(attempt-2) before retry attempt N, honoring
// cancellation.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	delay := c.cfg.RetryBaseDelay << (attempt - 2)
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrRequestFailed, ctx.Err())
	case <-time.After(delay):
		return nil
	}
}

func (c *Client) join(path string) (string, error) {
	if c.cfg.BaseURL == "" {
		return "", ErrInvalidBaseURL
	}
	return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/"), nil
}

// drain discards and closes a response body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}
