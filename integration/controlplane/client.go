package controlplane

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/durableworks/agentkit/core/apiclient"
	"github.com/durableworks/agentkit/core/logger"
	"github.com/durableworks/agentkit/core/workflowctx"
)

// Config holds the control-plane connection settings.
type Config struct {
	BaseURL string `env:"CONTROL_PLANE_BASE_URL,required"`
	APIKey  string `env:"CONTROL_PLANE_API_KEY"`

	// Embedded resilient client settings share the API_CLIENT_* variables.
	Client apiclient.Config
}

// ServerSettings is the bootstrap configuration served by the control plane.
// Fetched once at startup, never per-request.
type ServerSettings struct {
	Namespace         string          `json:"namespace"`
	DefaultTaskQueue  string          `json:"defaultTaskQueue"`
	HeartbeatInterval time.Duration   `json:"heartbeatInterval"`
	Features          map[string]bool `json:"features"`
}

// Client is the HTTP control-plane client. It implements
// workflowctx.ControlPlaneClient on top of the resilient API client, so
// parent-description fetches on the resolution hot path inherit circuit
// breaking and retry behavior.
type Client struct {
	api    *apiclient.Client
	apiKey string
	log    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for internal operations.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithAPIClient replaces the underlying resilient client, e.g. to share one
// breaker across consumers of the same endpoint.
func WithAPIClient(api *apiclient.Client) Option {
	return func(c *Client) {
		if api != nil {
			c.api = api
		}
	}
}

// New creates a control-plane client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w", apiclient.ErrInvalidBaseURL)
	}

	apiCfg := cfg.Client
	apiCfg.BaseURL = cfg.BaseURL

	c := &Client{
		api:    apiclient.New(apiCfg),
		apiKey: cfg.APIKey,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MustNew creates a control-plane client and panics on invalid config.
func MustNew(cfg Config, opts ...Option) *Client {
	c, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// parentDescriptionPayload is the wire shape of the description endpoint.
type parentDescriptionPayload struct {
	Tags        map[string]string `json:"tags"`
	Annotations map[string]string `json:"annotations"`
}

// FetchParentDescription returns the attached metadata of a workflow
// execution, or (nil, nil) when the control plane does not know it.
func (c *Client) FetchParentDescription(ctx context.Context, unitID, runID string) (*workflowctx.ParentDescription, error) {
	path := fmt.Sprintf("/api/v1/workflows/%s/runs/%s/description", unitID, runID)

	var payload parentDescriptionPayload
	found, err := c.getJSON(ctx, path, &payload)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	return &workflowctx.ParentDescription{
		Tags:        payload.Tags,
		Annotations: payload.Annotations,
	}, nil
}

// FetchSettings retrieves the bootstrap server settings.
func (c *Client) FetchSettings(ctx context.Context) (*ServerSettings, error) {
	var settings ServerSettings
	found, err := c.getJSON(ctx, "/api/v1/settings", &settings)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: settings endpoint not found", apiclient.ErrRequestFailed)
	}
	return &settings, nil
}

// Healthcheck reports whether the control plane is reachable. Suitable for
// readiness probes.
func (c *Client) Healthcheck(ctx context.Context) error {
	return c.api.Healthcheck(ctx)
}

// getJSON issues a GET and decodes the JSON body. Returns found=false for
// 404 responses; any other non-2xx status is an error.
func (c *Client) getJSON(ctx context.Context, path string, v any) (bool, error) {
	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.api.Get(ctx, path, header)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= http.StatusMultipleChoices:
		c.log.Debug("control plane returned unexpected status",
			logger.Component("controlplane"),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		return false, fmt.Errorf("%w: unexpected status %d", apiclient.ErrRequestFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, fmt.Errorf("%w: decoding response: %w", apiclient.ErrRequestFailed, err)
	}
	return true, nil
}
