package controlplane_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/durableworks/agentkit/core/apiclient"
	"github.com/durableworks/agentkit/core/workflowctx"
	"github.com/durableworks/agentkit/integration/controlplane"
)

var _ workflowctx.ControlPlaneClient = (*controlplane.Client)(nil)

func newTestClient(t *testing.T, handler http.Handler) *controlplane.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := controlplane.New(controlplane.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
	})
	require.NoError(t, err)
	return client
}

func TestNew_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := controlplane.New(controlplane.Config{})
	assert.ErrorIs(t, err, apiclient.ErrInvalidBaseURL)
}

func TestMustNew_PanicsOnInvalidConfig(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		controlplane.MustNew(controlplane.Config{})
	})
}

func TestClient_FetchParentDescription(t *testing.T) {
	t.Parallel()

	t.Run("returns tags and annotations", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotAuth, gotRequestID string
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			gotRequestID = r.Header.Get("X-Request-ID")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"tags": {"TenantId": "acme", "UserId": "u-1"},
				"annotations": {"WorkflowIdPostfix": "batch-7"}
			}`))
		}))

		desc, err := client.FetchParentDescription(context.Background(), "wf-123", "run-456")
		require.NoError(t, err)
		require.NotNil(t, desc)

		assert.Equal(t, "/api/v1/workflows/wf-123/runs/run-456/description", gotPath)
		assert.Equal(t, "Bearer test-key", gotAuth)
		assert.NotEmpty(t, gotRequestID)
		assert.Equal(t, "acme", desc.Tags["TenantId"])
		assert.Equal(t, "u-1", desc.Tags["UserId"])
		assert.Equal(t, "batch-7", desc.Annotations["WorkflowIdPostfix"])
	})

	t.Run("unknown execution yields nil without error", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		desc, err := client.FetchParentDescription(context.Background(), "wf-unknown", "run-unknown")
		require.NoError(t, err)
		assert.Nil(t, desc)
	})

	t.Run("malformed body fails", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"tags": 42}`))
		}))

		_, err := client.FetchParentDescription(context.Background(), "wf-123", "run-456")
		assert.ErrorIs(t, err, apiclient.ErrRequestFailed)
	})

	t.Run("server errors surface after retries", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		client, err := controlplane.New(controlplane.Config{
			BaseURL: srv.URL,
			Client:  apiclient.Config{MaxRetries: 2, RetryBaseDelay: 1},
		})
		require.NoError(t, err)

		_, err = client.FetchParentDescription(context.Background(), "wf-123", "run-456")
		assert.ErrorIs(t, err, apiclient.ErrRequestFailed)
		assert.Equal(t, int64(2), hits.Load())
	})
}

func TestClient_FetchSettings(t *testing.T) {
	t.Parallel()

	t.Run("decodes settings", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/settings", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"namespace": "agents-prod",
				"defaultTaskQueue": "system-default",
				"heartbeatInterval": 30000000000,
				"features": {"remoteResolution": true}
			}`))
		}))

		settings, err := client.FetchSettings(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "agents-prod", settings.Namespace)
		assert.Equal(t, "system-default", settings.DefaultTaskQueue)
		assert.True(t, settings.Features["remoteResolution"])
	})

	t.Run("missing endpoint is an error", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.FetchSettings(context.Background())
		assert.ErrorIs(t, err, apiclient.ErrRequestFailed)
	})
}

func TestClient_Healthcheck(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	assert.NoError(t, client.Healthcheck(context.Background()))
}
