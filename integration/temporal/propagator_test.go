package temporal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	commonpb "go.temporal.io/api/common/v1"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/durableworks/agentkit/core/workflowctx"
	"github.com/durableworks/agentkit/integration/temporal"
)

// headerCarrier is an in-memory workflow.HeaderWriter / HeaderReader pair.
type headerCarrier struct {
	payloads map[string]*commonpb.Payload
}

func newHeaderCarrier() *headerCarrier {
	return &headerCarrier{payloads: make(map[string]*commonpb.Payload)}
}

func (h *headerCarrier) Set(key string, value *commonpb.Payload) {
	h.payloads[key] = value
}

func (h *headerCarrier) Get(key string) (*commonpb.Payload, bool) {
	p, ok := h.payloads[key]
	return p, ok
}

func (h *headerCarrier) ForEachKey(fn func(string, *commonpb.Payload) error) error {
	for k, v := range h.payloads {
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

func TestIdentityPropagator_InjectExtractRoundTrip(t *testing.T) {
	t.Parallel()

	prop := temporal.NewIdentityPropagator()
	carrier := newHeaderCarrier()

	ctx := context.Background()
	ctx = workflowctx.WithTenantID(ctx, "acme")
	ctx = workflowctx.WithUserID(ctx, "u-1")
	ctx = workflowctx.WithIDPostfix(ctx, "batch-7")

	require.NoError(t, prop.Inject(ctx, carrier))
	require.Len(t, carrier.payloads, 1)

	got, err := prop.Extract(context.Background(), carrier)
	require.NoError(t, err)

	tenant, ok := workflowctx.TenantIDFromContext(got)
	require.True(t, ok)
	assert.Equal(t, "acme", tenant)

	user, ok := workflowctx.UserIDFromContext(got)
	require.True(t, ok)
	assert.Equal(t, "u-1", user)

	postfix, ok := workflowctx.IDPostfixFromContext(got)
	require.True(t, ok)
	assert.Equal(t, "batch-7", postfix)
}

func TestIdentityPropagator_Inject_EmptyIdentityWritesNothing(t *testing.T) {
	t.Parallel()

	prop := temporal.NewIdentityPropagator()
	carrier := newHeaderCarrier()

	require.NoError(t, prop.Inject(context.Background(), carrier))
	assert.Empty(t, carrier.payloads)
}

func TestIdentityPropagator_Extract_MissingHeaderIsNoop(t *testing.T) {
	t.Parallel()

	prop := temporal.NewIdentityPropagator()

	ctx, err := prop.Extract(context.Background(), newHeaderCarrier())
	require.NoError(t, err)

	_, ok := workflowctx.TenantIDFromContext(ctx)
	assert.False(t, ok)
}

func TestIdentityPropagator_PartialIdentity(t *testing.T) {
	t.Parallel()

	prop := temporal.NewIdentityPropagator()
	carrier := newHeaderCarrier()

	ctx := workflowctx.WithTenantID(context.Background(), "acme")
	require.NoError(t, prop.Inject(ctx, carrier))

	got, err := prop.Extract(context.Background(), carrier)
	require.NoError(t, err)

	tenant, ok := workflowctx.TenantIDFromContext(got)
	require.True(t, ok)
	assert.Equal(t, "acme", tenant)

	_, ok = workflowctx.UserIDFromContext(got)
	assert.False(t, ok)
}

func TestIdentityPropagator_WorkflowSide(t *testing.T) {
	ts := &testsuite.WorkflowTestSuite{}
	env := ts.NewTestWorkflowEnvironment()
	env.SetContextPropagators([]workflow.ContextPropagator{temporal.NewIdentityPropagator()})

	payload, err := converter.GetDefaultDataConverter().ToPayload(map[string]string{
		"tenantId":  "acme",
		"userId":    "u-1",
		"idPostfix": "batch-7",
	})
	require.NoError(t, err)
	env.SetHeader(&commonpb.Header{Fields: map[string]*commonpb.Payload{
		"agentkit-identity": payload,
	}})

	wf := func(ctx workflow.Context) (map[string]string, error) {
		out := map[string]string{}
		if v, ok := temporal.TenantIDFromWorkflow(ctx); ok {
			out["tenant"] = v
		}
		if v, ok := temporal.UserIDFromWorkflow(ctx); ok {
			out["user"] = v
		}
		if v, ok := temporal.IDPostfixFromWorkflow(ctx); ok {
			out["postfix"] = v
		}
		return out, nil
	}
	env.RegisterWorkflow(wf)

	env.ExecuteWorkflow(wf)
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out map[string]string
	require.NoError(t, env.GetWorkflowResult(&out))

	assert.Equal(t, "acme", out["tenant"])
	assert.Equal(t, "u-1", out["user"])
	assert.Equal(t, "batch-7", out["postfix"])
}
